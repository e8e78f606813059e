package engine

import (
	"fmt"
	"strconv"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

type ResOption struct {
	W, H  int
	Label string
}

var resOptions = []ResOption{
	{1024, 768, "1024x768 (XGA)"},
	{1366, 768, "1366x768 (laptop)"},
	{1920, 1080, "1920x1080 (FHD)"},
	{2560, 1440, "2560x1440 (QHD)"},
}

// setupField is one text box of the setup screen.
type setupField struct {
	label   string
	value   *string
	numeric bool
	browse  func(window *sdl.Window)
}

// setupToggle is one checkbox of the setup screen.
type setupToggle struct {
	label string
	value *bool
}

// parseSetup copies the text fields into cfg. It reports what is missing.
func parseSetup(cfg *Config, participant, age string) error {
	p, err := strconv.Atoi(participant)
	if err != nil || p <= 0 {
		return fmt.Errorf("enter a participant number")
	}
	a, err := strconv.Atoi(age)
	if err != nil || a <= 0 {
		return fmt.Errorf("enter the participant's age")
	}
	cfg.Participant, cfg.Age = p, a
	return nil
}

func drawLabel(renderer *sdl.Renderer, font *ttf.Font, text string, x, y float32, color sdl.Color) {
	if text == "" {
		return
	}
	surf, err := font.RenderTextBlended(text, color)
	if err != nil || surf == nil {
		return
	}
	tex, err := renderer.CreateTextureFromSurface(surf)
	if err == nil {
		r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
		renderer.RenderTexture(tex, nil, &r)
		tex.Destroy()
	}
	surf.Destroy()
}

func drawCheck(renderer *sdl.Renderer, x, y float32, on bool) {
	renderer.SetDrawColor(255, 255, 255, 255)
	check := sdl.FRect{X: x, Y: y, W: 20, H: 20}
	renderer.RenderFillRect(&check)
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.RenderRect(&check)
	if on {
		mark := sdl.FRect{X: x + 4, Y: y + 4, W: 12, H: 12}
		renderer.SetDrawColor(0, 150, 0, 255)
		renderer.RenderFillRect(&mark)
	}
}

func inside(mx, my, x, y, w, h float32) bool {
	return mx >= x && mx <= x+w && my >= y && my <= y+h
}

// RunGuiSetup asks for the participant and run options. It returns false if
// the window was closed without starting.
func RunGuiSetup(cfg *Config) bool {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Printf("SDL_Init Error: %v\n", err)
		return false
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		fmt.Printf("TTF_Init Error: %v\n", err)
		return false
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer("Microsaccade bias setup", 800, 780, 0)
	if err != nil {
		fmt.Printf("CreateWindowAndRenderer Error: %v\n", err)
		return false
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := GetDefaultFontPath()
	if fontPath == "" {
		fmt.Println("Error: No default font found for GUI setup")
		return false
	}
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		fmt.Printf("Failed to load GUI font: %v\n", err)
		return false
	}
	defer guiFont.Close()

	var participant, age string
	if cfg.Participant > 0 {
		participant = strconv.Itoa(cfg.Participant)
	}
	if cfg.Age > 0 {
		age = strconv.Itoa(cfg.Age)
	}

	fields := []setupField{
		{label: "Participant number:", value: &participant, numeric: true},
		{label: "Age:", value: &age, numeric: true},
		{label: "Settings file (JSON, optional):", value: &cfg.SettingsFile, browse: func(w *sdl.Window) {
			filters := []sdl.DialogFileFilter{{Name: "JSON Files", Pattern: "json"}}
			cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
				if len(fileList) > 0 {
					cfg.SettingsFile = fileList[0]
				}
			})
			sdl.ShowOpenFileDialog(cb, w, filters, "", false)
		}},
		{label: "Output directory:", value: &cfg.OutputDir, browse: func(w *sdl.Window) {
			cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
				if len(fileList) > 0 {
					cfg.OutputDir = fileList[0]
				}
			})
			sdl.ShowOpenFolderDialog(cb, w, "", false)
		}},
		{label: "DLP-IO8-G device (optional):", value: &cfg.DLPDevice},
	}
	toggles := []setupToggle{
		{"Fullscreen mode", &cfg.Fullscreen},
		{"Testing mode (short blocks, _test files)", &cfg.Testing},
		{"Mouse as gaze", &cfg.MouseGaze},
		{"Skip practice", &cfg.SkipPractice},
	}

	const (
		fieldY    = 20
		fieldStep = 70
		resY      = fieldY + 5*fieldStep
		toggleY   = resY + 170
		startY    = toggleY + 4*35 + 20
	)

	selectedRes := 2
	for i, res := range resOptions {
		if cfg.ScreenWidth == res.W && cfg.ScreenHeight == res.H {
			selectedRes = i
			break
		}
	}

	setupDone := false
	focusBox := -1
	message := ""

	window.StartTextInput()
	defer window.StopTextInput()

	for !setupDone {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return false
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y

				focusBox = -1
				for i, f := range fields {
					boxY := float32(fieldY + 30 + i*fieldStep)
					if inside(mx, my, 50, boxY, 650, 30) {
						focusBox = i
					}
					if f.browse != nil && inside(mx, my, 710, boxY, 70, 30) {
						f.browse(window)
					}
				}

				for i := range resOptions {
					if inside(mx, my, 50, float32(resY+30+i*35), 250, 30) {
						selectedRes = i
					}
				}
				for i, t := range toggles {
					if inside(mx, my, 50, float32(toggleY+i*35), 400, 30) {
						*t.value = !*t.value
					}
				}

				if inside(mx, my, 350, startY, 100, 40) {
					if err := parseSetup(cfg, participant, age); err != nil {
						message = err.Error()
					} else {
						cfg.ScreenWidth = resOptions[selectedRes].W
						cfg.ScreenHeight = resOptions[selectedRes].H
						cfg.SaveCache()
						setupDone = true
					}
				}
			case sdl.EVENT_TEXT_INPUT:
				ti := e.TextInputEvent()
				if focusBox != -1 {
					f := fields[focusBox]
					if f.numeric {
						if _, err := strconv.Atoi(ti.Text); err != nil {
							continue
						}
					}
					*f.value += ti.Text
				}
			case sdl.EVENT_KEY_DOWN:
				ke := e.KeyboardEvent()
				if focusBox != -1 && ke.Key == sdl.K_BACKSPACE {
					target := fields[focusBox].value
					if len(*target) > 0 {
						*target = (*target)[:len(*target)-1]
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		black := sdl.Color{R: 0, G: 0, B: 0, A: 255}

		for i, f := range fields {
			y := float32(fieldY + i*fieldStep)
			drawLabel(renderer, guiFont, f.label, 50, y, black)

			renderer.SetDrawColor(255, 255, 255, 255)
			box := sdl.FRect{X: 50, Y: y + 30, W: 650, H: 30}
			renderer.RenderFillRect(&box)
			if focusBox == i {
				renderer.SetDrawColor(0, 120, 255, 255)
			} else {
				renderer.SetDrawColor(180, 180, 180, 255)
			}
			renderer.RenderRect(&box)
			drawLabel(renderer, guiFont, *f.value, 55, y+35, black)

			if f.browse != nil {
				renderer.SetDrawColor(200, 200, 200, 255)
				btn := sdl.FRect{X: 710, Y: y + 30, W: 70, H: 30}
				renderer.RenderFillRect(&btn)
				renderer.SetDrawColor(0, 0, 0, 255)
				renderer.RenderRect(&btn)
				drawLabel(renderer, guiFont, "...", 735, y+35, black)
			}
		}

		drawLabel(renderer, guiFont, "Window size:", 50, resY, black)
		for i, opt := range resOptions {
			y := float32(resY + 30 + i*35)
			drawCheck(renderer, 50, y, selectedRes == i)
			drawLabel(renderer, guiFont, opt.Label, 80, y, black)
		}

		for i, t := range toggles {
			y := float32(toggleY + i*35)
			drawCheck(renderer, 50, y, *t.value)
			drawLabel(renderer, guiFont, t.label, 80, y, black)
		}

		// Start button
		renderer.SetDrawColor(0, 150, 0, 255)
		startBtn := sdl.FRect{X: 350, Y: startY, W: 100, H: 40}
		renderer.RenderFillRect(&startBtn)
		drawLabel(renderer, guiFont, "START", 375, startY+10, sdl.Color{R: 255, G: 255, B: 255, A: 255})
		drawLabel(renderer, guiFont, message, 470, startY+10, sdl.Color{R: 200, G: 0, B: 0, A: 255})

		renderer.Present()
		sdl.Delay(10)
	}

	return true
}
