package settings

import (
	"fmt"
	"math"
)

// Monitor describes the physical display and viewing distance.
type Monitor struct {
	Width      int     `json:"width_px"`
	Height     int     `json:"height_px"`
	Hz         float64 `json:"hz"`
	WidthCM    float64 `json:"width_cm"`
	DistanceCM float64 `json:"distance_cm"`
}

// LabMonitor is the set-up of the eye-tracking lab.
func LabMonitor() Monitor {
	return Monitor{Width: 1920, Height: 1080, Hz: 239, WidthCM: 53, DistanceCM: 70}
}

// LaptopMonitor is the set-up used for testing outside the lab.
func LaptopMonitor() Monitor {
	return Monitor{Width: 2880, Height: 1800, Hz: 120, WidthCM: 30, DistanceCM: 50}
}

func (m Monitor) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", m.Width, m.Height)
	}
	if m.WidthCM <= 0 || m.DistanceCM <= 0 {
		return fmt.Errorf("width_cm and distance_cm must be positive, got %g and %g", m.WidthCM, m.DistanceCM)
	}
	return nil
}

// DegreesPerPixel is the visual angle covered by one pixel at screen centre.
func (m Monitor) DegreesPerPixel() float64 {
	half := math.Atan2(0.5*m.WidthCM, m.DistanceCM) * 180 / math.Pi
	return half / (0.5 * float64(m.Width))
}

// Deg2Pix converts degrees of visual angle to whole pixels.
func (m Monitor) Deg2Pix(deg float64) int {
	return int(math.Round(deg / m.DegreesPerPixel()))
}

// Centre returns the pixel coordinates of the screen centre.
func (m Monitor) Centre() (x, y float64) {
	return float64(m.Width / 2), float64(m.Height / 2)
}

var textureSizes = []int{64, 128, 256, 512, 1024}

// TextureSize returns the power-of-two texture edge closest to a grating of
// sizeDeg degrees.
func (m Monitor) TextureSize(sizeDeg float64) int {
	raw := m.Deg2Pix(sizeDeg)
	best := textureSizes[0]
	for _, s := range textureSizes[1:] {
		if abs(s-raw) < abs(best-raw) {
			best = s
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
