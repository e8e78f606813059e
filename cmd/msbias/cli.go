package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/engine"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := engine.DefaultConfig()

	participant := flag.Int("participant", 0, "Participant number")
	age := flag.Int("age", 0, "Participant age")
	settingsFile := flag.String("settings", "", "Experiment settings JSON file")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Directory for session data")
	dbFile := flag.String("db", "", "Participant registry database (default <output-dir>/participants.db)")
	scheduleFile := flag.String("schedule", "", "Run the blocks of a schedule CSV instead of planning new ones")
	writeSchedule := flag.String("write-schedule", "", "Plan blocks, write them to this CSV and exit")
	seed := flag.Uint64("seed", 0, "Random seed (0 uses the clock)")
	testing := flag.Bool("testing", false, "Testing mode: short blocks, files marked _test")
	skipPractice := flag.Bool("skip-practice", false, "Go straight to the blocks")
	useConsole := flag.Bool("console", false, "Run in the terminal instead of an SDL window")
	mouseGaze := flag.Bool("mouse-gaze", false, "Use the mouse position as gaze")
	noTones := flag.Bool("no-tones", false, "Disable feedback tones")
	startSplash := flag.String("start-splash", "", "Start splash image")
	fontFile := flag.String("font", "", "TTF font file")
	fontSize := flag.Int("font-size", cfg.FontSize, "Font size")
	dlpDevice := flag.String("dlp", "", "DLP-IO8-G device")
	screenW := flag.Int("width", cfg.ScreenWidth, "Screen width")
	screenH := flag.Int("height", cfg.ScreenHeight, "Screen height")
	scaleFactor := flag.Float64("scale", 1.0, "Scale factor for the splash image")
	noVSync := flag.Bool("no-vsync", false, "Disable VSync")
	fullscreen := flag.Bool("fullscreen", false, "Enable fullscreen")
	bgColorStr := flag.String("bg-color", "64,64,64,255", "Background color (R,G,B,A)")
	textColorStr := flag.String("text-color", "255,255,255,255", "Text color (R,G,B,A)")
	fixColorStr := flag.String("fixation-color", "234,234,234,255", "Fixation color (R,G,B,A)")

	flag.Parse()

	cfg.Participant = *participant
	cfg.Age = *age
	cfg.SettingsFile = *settingsFile
	cfg.OutputDir = *outputDir
	cfg.DBFile = *dbFile
	cfg.ScheduleFile = *scheduleFile
	cfg.Seed = *seed
	cfg.Testing = *testing
	cfg.SkipPractice = *skipPractice
	cfg.MouseGaze = *mouseGaze
	cfg.Tones = !*noTones
	cfg.StartSplash = *startSplash
	cfg.FontFile = *fontFile
	cfg.FontSize = *fontSize
	cfg.DLPDevice = *dlpDevice
	cfg.ScreenWidth = *screenW
	cfg.ScreenHeight = *screenH
	cfg.ScaleFactor = float32(*scaleFactor)
	cfg.VSync = !*noVSync
	cfg.Fullscreen = *fullscreen
	cfg.BGColor = engine.ParseColor(*bgColorStr)
	cfg.TextColor = engine.ParseColor(*textColorStr)
	cfg.FixationColor = engine.ParseColor(*fixColorStr)

	if *writeSchedule != "" {
		used, err := engine.WriteSchedule(cfg, *writeSchedule, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schedule written to %s (seed %d)\n", *writeSchedule, used)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *useConsole {
		err = engine.RunConsole(ctx, cfg)
	} else {
		defer binsdl.Load().Unload()
		defer binimg.Load().Unload()
		defer binttf.Load().Unload()
		err = engine.Run(ctx, cfg)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
