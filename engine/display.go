package engine

import (
	"math"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/stimuli"
)

// Display renders experiment screens with an SDL renderer. Drawing goes to
// the back buffer; Flip presents it and starts the next frame.
type Display struct {
	renderer *sdl.Renderer
	cfg      *Config
	layout   stimuli.Layout
	text     *TextCache
}

// NewDisplay draws on renderer with the geometry of s. font may be nil, in
// which case text is not shown.
func NewDisplay(renderer *sdl.Renderer, font *ttf.Font, cfg *Config, s *settings.Settings) *Display {
	d := &Display{
		renderer: renderer,
		cfg:      cfg,
		layout:   stimuli.NewLayout(s),
		text:     NewTextCache(renderer, font, cfg.TextColor),
	}
	d.clear()
	return d
}

func (d *Display) Destroy() {
	d.text.Destroy()
}

func (d *Display) clear() {
	setDrawColor(d.renderer, d.cfg.BGColor)
	d.renderer.Clear()
}

func setDrawColor(r *sdl.Renderer, c sdl.Color) {
	r.SetDrawColor(c.R, c.G, c.B, c.A)
}

func sdlColor(c design.Colour) sdl.Color {
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

func (d *Display) line(s stimuli.Segment) {
	d.renderer.RenderLine(float32(s.A.X), float32(s.A.Y), float32(s.B.X), float32(s.B.Y))
}

// thickLine draws s as parallel one-pixel lines spread over width.
func (d *Display) thickLine(s stimuli.Segment, width float64) {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length, dx/length
	n := int(math.Max(1, math.Round(width)))
	for i := 0; i < n; i++ {
		o := float64(i) - float64(n-1)/2
		d.line(stimuli.Segment{
			A: stimuli.Point{X: s.A.X + nx*o, Y: s.A.Y + ny*o},
			B: stimuli.Point{X: s.B.X + nx*o, Y: s.B.Y + ny*o},
		})
	}
}

const CrossSize = 20

// drawFixationCross is the fallback cross of fixed pixel size used on the
// splash screen.
func drawFixationCross(renderer *sdl.Renderer, w, h int, color sdl.Color) {
	setDrawColor(renderer, color)
	mx, my := float32(w)/2, float32(h)/2
	renderer.RenderLine(mx-CrossSize, my, mx+CrossSize, my)
	renderer.RenderLine(mx, my-CrossSize, mx, my+CrossSize)
}

func (d *Display) drawFixation(color sdl.Color) {
	c := d.layout.Centre()
	arm := d.layout.Pix(stimuli.FixationCrossDeg)
	width := d.layout.Pix(stimuli.FixationLineDeg)
	setDrawColor(d.renderer, color)
	d.thickLine(stimuli.Segment{A: stimuli.Point{X: c.X - arm, Y: c.Y}, B: stimuli.Point{X: c.X + arm, Y: c.Y}}, width)
	d.thickLine(stimuli.Segment{A: stimuli.Point{X: c.X, Y: c.Y - arm}, B: stimuli.Point{X: c.X, Y: c.Y + arm}}, width)
}

func (d *Display) DrawFixation() {
	d.drawFixation(d.cfg.FixationColor)
}

func (d *Display) drawGrating(centre stimuli.Point, orientation float64, c design.Colour) {
	setDrawColor(d.renderer, sdlColor(c))
	stripe := d.layout.GaborRadius / stimuli.GratingCycles
	for _, s := range stimuli.GratingSegments(centre, d.layout.GaborRadius, orientation, stimuli.GratingCycles) {
		d.thickLine(s, stripe)
	}
}

func (d *Display) DrawStimuli(left, right float64, colours [2]design.Colour, cue *design.Colour) {
	lp, _ := d.layout.Position(design.Left)
	rp, _ := d.layout.Position(design.Right)
	d.drawGrating(lp, left, colours[0])
	d.drawGrating(rp, right, colours[1])

	if cue != nil {
		setDrawColor(d.renderer, sdlColor(*cue))
		for _, s := range stimuli.DiscRows(d.layout.Centre(), d.layout.Pix(stimuli.CaptureCueDeg)/2) {
			d.line(s)
		}
	}
	d.DrawFixation()
}

func (d *Display) DrawGrating(orientation float64, colour design.Colour) {
	d.drawGrating(d.layout.Centre(), orientation, colour)
}

// charsPerLine estimates how many characters fit in 80% of the screen width.
func charsPerLine(screenW, fontSize int) int {
	if fontSize <= 0 {
		return screenW
	}
	return int(0.8 * float64(screenW) / (0.6 * float64(fontSize)))
}

// DrawText centres text on the fixation row, raised by offsetDeg.
func (d *Display) DrawText(text string, offsetDeg float64) {
	lines := stimuli.Wrap(text, charsPerLine(d.layout.Monitor.Width, d.cfg.FontSize))
	lineH := float32(d.cfg.FontSize) * 1.3
	y := float32(d.layout.TextY(offsetDeg)) - lineH*float32(len(lines))/2
	cx := float32(d.layout.Centre().X)

	for i, line := range lines {
		entry := d.text.Get(line)
		if entry == nil {
			continue
		}
		dst := sdl.FRect{X: cx - entry.W/2, Y: y + lineH*float32(i), W: entry.W, H: entry.H}
		d.renderer.RenderTexture(entry.Texture, nil, &dst)
	}
}

func (d *Display) Flip() error {
	if err := d.renderer.Present(); err != nil {
		return err
	}
	d.clear()
	return nil
}

// DisplaySplash shows an image until a key is pressed. It returns false if
// the window was closed instead.
func DisplaySplash(renderer *sdl.Renderer, cfg *Config) bool {
	if cfg.StartSplash == "" {
		return true
	}
	tex, err := img.LoadTexture(renderer, cfg.StartSplash)
	if err != nil {
		return true
	}
	defer tex.Destroy()

	tw, th, _ := tex.Size()
	dst := sdl.FRect{
		X: (float32(cfg.ScreenWidth) - tw*cfg.ScaleFactor) / 2.0,
		Y: (float32(cfg.ScreenHeight) - th*cfg.ScaleFactor) / 2.0,
		W: tw * cfg.ScaleFactor,
		H: th * cfg.ScaleFactor,
	}

	setDrawColor(renderer, cfg.BGColor)
	renderer.Clear()
	renderer.RenderTexture(tex, nil, &dst)
	drawFixationCross(renderer, cfg.ScreenWidth, cfg.ScreenHeight, cfg.FixationColor)
	renderer.Present()

	for {
		var event sdl.Event
		if err := sdl.WaitEvent(&event); err != nil {
			break
		}
		if event.Type == sdl.EVENT_QUIT {
			return false
		}
		if event.Type == sdl.EVENT_KEY_DOWN {
			break
		}
	}
	return true
}
