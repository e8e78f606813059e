package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/engine"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	cfg := engine.DefaultConfig()
	cfg.LoadCache()

	// Default settings file if none was cached
	if cfg.SettingsFile == "" {
		if _, err := os.Stat("settings.json"); err == nil {
			cfg.SettingsFile = "settings.json"
		}
	}

	if !engine.RunGuiSetup(cfg) {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := engine.Run(ctx, cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}
