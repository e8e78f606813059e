package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

func GetDefaultFontPath() string {
	// Check local fonts directory
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".ttc" {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	// System paths, monospaced first
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\cour.ttf", "C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/System/Library/Fonts/Courier.ttc", "/System/Library/Fonts/Helvetica.ttc"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// OpenFont loads cfg.FontFile or the default font. It returns nil if neither
// can be opened; screens then show no text.
func OpenFont(cfg *Config) *ttf.Font {
	path := cfg.FontFile
	if path == "" {
		path = GetDefaultFontPath()
	}
	if path == "" {
		fmt.Println("No font found, text will not be shown")
		return nil
	}
	font, err := ttf.OpenFont(path, float32(cfg.FontSize))
	if err != nil {
		fmt.Printf("Failed to load font: %s (%v)\n", path, err)
		return nil
	}
	return font
}

type TextEntry struct {
	Texture *sdl.Texture
	W, H    float32
}

// TextCache keeps one texture per rendered line. Instruction and feedback
// screens repeat the same lines, so each is rendered once.
type TextCache struct {
	renderer *sdl.Renderer
	font     *ttf.Font
	color    sdl.Color
	entries  map[string]*TextEntry
}

func NewTextCache(renderer *sdl.Renderer, font *ttf.Font, color sdl.Color) *TextCache {
	return &TextCache{
		renderer: renderer,
		font:     font,
		color:    color,
		entries:  make(map[string]*TextEntry),
	}
}

// Get returns the texture for line, or nil for an empty line or when no font
// is loaded.
func (c *TextCache) Get(line string) *TextEntry {
	if c.font == nil || line == "" {
		return nil
	}
	if entry, ok := c.entries[line]; ok {
		return entry
	}

	var entry *TextEntry
	surf, err := c.font.RenderTextBlended(line, c.color)
	if err == nil && surf != nil {
		tex, err := c.renderer.CreateTextureFromSurface(surf)
		if err == nil {
			entry = &TextEntry{Texture: tex, W: float32(surf.W), H: float32(surf.H)}
		} else {
			fmt.Printf("Failed to create text texture: %v\n", err)
		}
		surf.Destroy()
	}
	c.entries[line] = entry
	return entry
}

func (c *TextCache) Destroy() {
	for _, entry := range c.entries {
		if entry != nil && entry.Texture != nil {
			entry.Texture.Destroy()
		}
	}
	c.entries = make(map[string]*TextEntry)
}
