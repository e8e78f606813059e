package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/eyetracker"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/session"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

func refreshRate(renderer *sdl.Renderer) float64 {
	win, err := renderer.Window()
	if err != nil {
		return 0
	}
	display := sdl.GetDisplayForWindow(win)
	mode, err := display.CurrentDisplayMode()
	if err != nil || mode.RefreshRate <= 0 {
		return 0
	}
	return float64(mode.RefreshRate)
}

// Run registers a session and runs it in an SDL window. It must be called
// from the main thread.
func Run(ctx context.Context, cfg *Config) error {
	exp, err := Prepare(ctx, cfg, time.Now())
	if err != nil {
		return err
	}
	defer exp.Close()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	window, renderer, err := sdl.CreateWindowAndRenderer("Microsaccade bias", cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}
	if !cfg.MouseGaze {
		sdl.HideCursor()
	}

	font := OpenFont(cfg)
	defer func() {
		if font != nil {
			font.Close()
		}
	}()

	// Pixel geometry follows the window; physical size and viewing distance
	// come from the settings.
	m := exp.Settings.GetMonitor()
	m.Width, m.Height = cfg.ScreenWidth, cfg.ScreenHeight
	if hz := refreshRate(renderer); hz > 0 {
		m.Hz = hz
	}
	s := exp.Settings.WithMonitor(m)

	var sounder session.Sounder
	if cfg.Tones {
		mixer := NewAudioMixer()
		cb := sdl.NewAudioStreamCallback(mixer.Callback)
		stream := sdl.AUDIO_DEVICE_DEFAULT_PLAYBACK.OpenAudioDeviceStream(AudioSpec(), cb)
		if stream == nil {
			fmt.Printf("Failed to open audio stream, feedback tones disabled\n")
		} else {
			defer stream.Destroy()
			stream.ResumeDevice()
			sounder = NewToneSounder(mixer)
		}
	}

	dlp := openDLP(cfg.DLPDevice)
	if dlp != nil {
		defer dlp.Close()
	}

	clock := timeutil.RealClock{}
	cx, cy := m.Centre()
	input := NewInput(clock, s.GetQuitKey(), cx, cy)
	tracker := eyetracker.NewDummy(cx, cy)
	if cfg.MouseGaze {
		tracker.Gaze = input.Gaze
	}

	display := NewDisplay(renderer, font, cfg, s)
	defer display.Destroy()

	if !DisplaySplash(renderer, cfg) {
		return exp.Sink(ctx).Save(&results.Log{}, nil, session.Quit)
	}

	res, err := RunExperiment(ctx, cfg, exp, s, Backend{
		Display:  display,
		Keyboard: input,
		Tracker:  tracker,
		DLP:      dlp,
		Sounder:  sounder,
		Clock:    clock,
	})
	printOutcome(exp, res, err)
	return err
}
