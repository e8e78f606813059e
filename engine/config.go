package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
)

type Config struct {
	SettingsFile  string
	OutputDir     string
	DBFile        string
	ScheduleFile  string
	StartSplash   string
	FontFile      string
	DLPDevice     string
	Participant   int
	Age           int
	Seed          uint64
	FontSize      int
	ScreenWidth   int
	ScreenHeight  int
	ScaleFactor   float32
	Fullscreen    bool
	VSync         bool
	MouseGaze     bool
	Testing       bool
	SkipPractice  bool
	Tones         bool
	BGColor       sdl.Color
	TextColor     sdl.Color
	FixationColor sdl.Color
}

func ParseColor(s string) sdl.Color {
	var r, g, b, a uint8
	fmt.Sscanf(s, "%d,%d,%d,%d", &r, &g, &b, &a)
	if a == 0 && s != "" && !strings.Contains(s, ",0") {
		a = 255
	}
	return sdl.Color{R: r, G: g, B: b, A: a}
}

const CacheFile = ".msbias_cache"

// Validate checks what a run cannot start without.
func (cfg *Config) Validate() error {
	if cfg.Participant <= 0 {
		return fmt.Errorf("participant number must be positive, got %d", cfg.Participant)
	}
	if cfg.Age <= 0 {
		return fmt.Errorf("age must be positive, got %d", cfg.Age)
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	return nil
}

func flag01(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (cfg *Config) SaveCache() {
	cfg.SaveCacheTo(CacheFile)
}

// SaveCacheTo remembers the setup screen fields. The participant number is
// not kept: every run asks for it again.
func (cfg *Config) SaveCacheTo(path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "settings_file=%s\n", cfg.SettingsFile)
	fmt.Fprintf(f, "output_dir=%s\n", cfg.OutputDir)
	fmt.Fprintf(f, "db_file=%s\n", cfg.DBFile)
	fmt.Fprintf(f, "schedule_file=%s\n", cfg.ScheduleFile)
	fmt.Fprintf(f, "dlp_device=%s\n", cfg.DLPDevice)
	fmt.Fprintf(f, "screen_w=%d\n", cfg.ScreenWidth)
	fmt.Fprintf(f, "screen_h=%d\n", cfg.ScreenHeight)
	fmt.Fprintf(f, "fullscreen=%d\n", flag01(cfg.Fullscreen))
	fmt.Fprintf(f, "mouse_gaze=%d\n", flag01(cfg.MouseGaze))
	fmt.Fprintf(f, "testing=%d\n", flag01(cfg.Testing))
	fmt.Fprintf(f, "skip_practice=%d\n", flag01(cfg.SkipPractice))
	fmt.Fprintf(f, "bg_color=%d,%d,%d\n", cfg.BGColor.R, cfg.BGColor.G, cfg.BGColor.B)
	fmt.Fprintf(f, "text_color=%d,%d,%d\n", cfg.TextColor.R, cfg.TextColor.G, cfg.TextColor.B)
	fmt.Fprintf(f, "fixation_color=%d,%d,%d\n", cfg.FixationColor.R, cfg.FixationColor.G, cfg.FixationColor.B)
}

func (cfg *Config) LoadCache() {
	cfg.LoadCacheFrom(CacheFile)
}

func (cfg *Config) LoadCacheFrom(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], parts[1]
		val = strings.TrimSpace(val)

		switch key {
		case "settings_file":
			cfg.SettingsFile = val
		case "output_dir":
			cfg.OutputDir = val
		case "db_file":
			cfg.DBFile = val
		case "schedule_file":
			cfg.ScheduleFile = val
		case "dlp_device":
			cfg.DLPDevice = val
		case "screen_w":
			fmt.Sscanf(val, "%d", &cfg.ScreenWidth)
		case "screen_h":
			fmt.Sscanf(val, "%d", &cfg.ScreenHeight)
		case "fullscreen":
			cfg.Fullscreen = (val != "0")
		case "mouse_gaze":
			cfg.MouseGaze = (val != "0")
		case "testing":
			cfg.Testing = (val != "0")
		case "skip_practice":
			cfg.SkipPractice = (val != "0")
		case "bg_color":
			cfg.BGColor = ParseColor(val)
		case "text_color":
			cfg.TextColor = ParseColor(val)
		case "fixation_color":
			cfg.FixationColor = ParseColor(val)
		}
	}
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:     "data",
		FontSize:      22,
		ScreenWidth:   1920,
		ScreenHeight:  1080,
		ScaleFactor:   1.0,
		VSync:         true,
		Tones:         true,
		BGColor:       sdl.Color{R: 64, G: 64, B: 64, A: 255},
		TextColor:     sdl.Color{R: 255, G: 255, B: 255, A: 255},
		FixationColor: sdl.Color{R: 234, G: 234, B: 234, A: 255},
	}
}
