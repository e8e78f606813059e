// Package console is a terminal backend for dry runs: the screens are drawn
// with tcell, the keyboard is the terminal keyboard and the mouse pointer
// stands in for gaze.
package console

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/stimuli"
)

// Display draws experiment screens as characters. Pixel positions of the
// configured monitor are scaled onto the terminal grid.
type Display struct {
	screen tcell.Screen
	layout stimuli.Layout
	dirty  bool // presented frame still in the buffer
}

// NewDisplay draws on screen with the geometry of s.
func NewDisplay(screen tcell.Screen, s *settings.Settings) *Display {
	return &Display{screen: screen, layout: stimuli.NewLayout(s)}
}

func (d *Display) begin() {
	if d.dirty {
		d.screen.Clear()
		d.dirty = false
	}
}

// cell maps a pixel position to a terminal cell.
func (d *Display) cell(p stimuli.Point) (int, int) {
	cols, rows := d.screen.Size()
	m := d.layout.Monitor
	x := int(p.X * float64(cols) / float64(m.Width))
	y := int(p.Y * float64(rows) / float64(m.Height))
	return x, y
}

func (d *Display) put(x, y int, r rune, style tcell.Style) {
	cols, rows := d.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	d.screen.SetContent(x, y, r, nil, style)
}

func colourStyle(c design.Colour) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

var white = tcell.StyleDefault.Foreground(tcell.ColorWhite)

// stripeGlyph is the character closest to a stripe orientation, in degrees
// clockwise from vertical.
func stripeGlyph(orientation float64) rune {
	o := math.Mod(orientation, 180)
	if o < 0 {
		o += 180
	}
	switch {
	case o < 22.5 || o >= 157.5:
		return '|'
	case o < 67.5:
		return '/'
	case o < 112.5:
		return '-'
	default:
		return '\\'
	}
}

func (d *Display) drawFixationStyled(style tcell.Style) {
	x, y := d.cell(d.layout.Centre())
	d.put(x, y, '+', style)
}

func (d *Display) DrawFixation() {
	d.begin()
	d.drawFixationStyled(white)
}

// drawGrating fills the cells covered by the grating disc with its glyph.
func (d *Display) drawGrating(centre stimuli.Point, orientation float64, c design.Colour) {
	cols, rows := d.screen.Size()
	m := d.layout.Monitor
	rx := d.layout.GaborRadius * float64(cols) / float64(m.Width)
	ry := d.layout.GaborRadius * float64(rows) / float64(m.Height)
	cx, cy := d.cell(centre)
	glyph, style := stripeGlyph(orientation), colourStyle(c)

	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(rx); dx <= int(rx); dx++ {
			nx, ny := float64(dx)/math.Max(rx, 1), float64(dy)/math.Max(ry, 1)
			if nx*nx+ny*ny <= 1 {
				d.put(cx+dx, cy+dy, glyph, style)
			}
		}
	}
}

func (d *Display) DrawStimuli(left, right float64, colours [2]design.Colour, cue *design.Colour) {
	d.begin()
	lp, _ := d.layout.Position(design.Left)
	rp, _ := d.layout.Position(design.Right)
	d.drawGrating(lp, left, colours[0])
	d.drawGrating(rp, right, colours[1])

	if cue == nil {
		d.drawFixationStyled(white)
		return
	}
	style := colourStyle(*cue)
	x, y := d.cell(d.layout.Centre())
	d.put(x-1, y, '(', style)
	d.drawFixationStyled(style)
	d.put(x+1, y, ')', style)
}

func (d *Display) DrawGrating(orientation float64, colour design.Colour) {
	d.begin()
	d.drawGrating(d.layout.Centre(), orientation, colour)
}

// DrawText centres text on the fixation row, raised by offsetDeg. Long lines
// are wrapped to the terminal width.
func (d *Display) DrawText(text string, offsetDeg float64) {
	d.begin()
	cols, _ := d.screen.Size()
	_, y := d.cell(stimuli.Point{Y: d.layout.TextY(offsetDeg)})

	lines := stimuli.Wrap(text, cols-4)
	y -= len(lines) / 2
	for i, line := range lines {
		x := (cols - len([]rune(line))) / 2
		for j, r := range []rune(line) {
			d.put(x+j, y+i, r, white)
		}
	}
}

func (d *Display) Flip() error {
	d.screen.Show()
	d.dirty = true
	return nil
}
