package main

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/raycast/pkg/render"
)

// HUD renders an overlay with frame statistics.
type HUD struct {
	Visible bool

	title     string
	stats     render.FrameStats
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD(title string) *HUD {
	return &HUD{
		title:   title,
		fpsTime: time.Now(),
	}
}

// Update records the latest frame (call once per frame).
func (h *HUD) Update(stats render.FrameStats) {
	h.stats = stats
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the overlay onto the top and bottom rows of scr.
func (h *HUD) Draw(scr uv.Screen) {
	if !h.Visible {
		return
	}
	var (
		bg     = render.ColorBlack
		green  = render.RGB(80, 250, 120)
		white  = render.ColorWhite
		cyan   = render.ColorCyan
		yellow = render.RGB(250, 220, 80)
	)
	b := scr.Bounds()
	width, bottom := b.Dx(), b.Max.Y-1

	// Top left: FPS
	render.DrawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), green, bg)

	// Top middle: model name
	title := " " + h.title + " "
	render.DrawText(scr, max((width-len(title))/2, 0), 0, title, white, bg)

	// Top right: triangle count
	tris := fmt.Sprintf(" %d tris ", h.stats.Triangles)
	render.DrawText(scr, max(width-len(tris), 0), 0, tris, cyan, bg)

	// Bottom: per-frame numbers
	info := fmt.Sprintf(" frame %d  %d/%d hits  %v ", h.stats.Frame, h.stats.Hits, h.stats.Samples,
		h.stats.Elapsed.Round(time.Millisecond))
	render.DrawText(scr, 0, bottom, info, white, bg)
	if h.stats.Degenerate > 0 {
		warn := fmt.Sprintf(" %d degenerate ", h.stats.Degenerate)
		render.DrawText(scr, max(width-len(warn), 0), bottom, warn, yellow, bg)
	}
}
