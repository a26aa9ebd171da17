// raycast - Terminal ray caster
// Casts one ray per pixel against a spinning triangle mesh and draws the
// result in your terminal. Without a model it shows the classic cube.
//
// Controls:
//
//	+/-    - Move the camera forward/back
//	Space  - Random spin
//	R      - Reset rotation and camera
//	?      - Toggle HUD overlay (FPS, model, triangle and sample count)
//	Esc/Q  - Quit
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
	"github.com/taigrr/raycast/pkg/render"
	"github.com/taigrr/raycast/pkg/scene"
)

var (
	targetFPS  = flag.Int("fps", 30, "Target FPS")
	bgColor    = flag.String("bg", "255,255,255", "Background color (R,G,B)")
	workers    = flag.Int("workers", 0, "Goroutines casting rays (0 = one per CPU)")
	tolerance  = flag.Float64("k", float64(geom.DefaultToleranceScale), "Inside-test tolerance scale")
	spin       = flag.Float64("spin", 1, "Spin speed multiplier")
	ease       = flag.Bool("ease", false, "Ease into the spin instead of starting at full speed")
	watchModel = flag.Bool("watch", false, "Reload the model when the file changes")
	pngPath    = flag.String("png", "", "Render without a terminal and write the last frame to this PNG")
	frames     = flag.Int("frames", 1, "Frames to render before writing -png")
	pixelSize  = flag.Float64("px", 3, "Film units per sample in -png mode")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raycast - Terminal ray caster\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raycast [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  +/-    - Move camera forward/back\n")
		fmt.Fprintf(os.Stderr, "  Space  - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R      - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?      - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q  - Quit\n")
	}
	flag.Parse()

	if *targetFPS <= 0 || *frames <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string) error {
	bg, err := render.ParseRGB(*bgColor)
	if err != nil {
		return err
	}

	cfg := render.DefaultConfig()
	cfg.Background = bg
	cfg.Workers = *workers
	cfg.Intersection.EpsilonScale = geom.ToleranceScale(*tolerance)
	cfg.Film.PixelSize = *pixelSize

	v := &viewer{cfg: cfg}

	if modelPath != "" {
		switch ext := strings.ToLower(filepath.Ext(modelPath)); ext {
		case ".glb", ".gltf":
		default:
			return fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
		}
		v.mesh, err = models.LoadGLB(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Loaded: %s (%d vertices, %d triangles)\n",
			filepath.Base(modelPath), v.mesh.VertexCount(), v.mesh.TriangleCount())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *pngPath != "" {
		v.logger = log.New(os.Stderr, "raycast: ", 0)
		return runPNG(ctx, v, *pngPath, *frames)
	}

	// The alternate screen hides anything written to stderr, so warnings are
	// collected and printed after the terminal is restored.
	var logs bytes.Buffer
	v.logger = log.New(&logs, "raycast: ", log.Ltime)
	err = runTerminal(ctx, v, modelPath)
	os.Stderr.Write(logs.Bytes())
	return err
}

// viewer holds the renderer and scene, which are rebuilt whenever the
// output size or the model changes.
type viewer struct {
	cfg    render.Config
	mesh   *models.Mesh // nil shows the demo cube
	logger *log.Logger

	r    *render.Renderer
	pose math3d.Matrix
	sc   *scene.Scene
	st   *scene.State
	fb   *render.Framebuffer
}

// build sizes the film to a width x height pixel sink.
func (v *viewer) build(width, height int) error {
	cfg, scale := v.cfg.Resize(width, height)
	return v.rebuild(cfg, scale)
}

func (v *viewer) rebuild(cfg render.Config, scale float64) error {
	r, err := render.New(cfg, render.WithLogger(v.logger))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	mc, anim := scene.Demo(scale)
	if v.mesh != nil {
		mc = v.mesh.SceneConfig(scale, nil)
	}
	anim.VelocityX *= *spin
	anim.VelocityY *= *spin
	anim.VelocityZ *= *spin
	anim.Ease = *ease
	anim.FPS = *targetFPS

	v.r = r
	v.pose = cfg.Camera.Pose
	v.sc = scene.New(mc, anim)
	v.st = v.sc.NewState()
	if v.fb == nil {
		v.fb = render.NewFramebuffer(0, 0)
	}
	v.fb.Background = cfg.Background
	return nil
}

// zoom moves the camera a tenth of its focal distance per step.
func (v *viewer) zoom(steps float64) {
	cam := v.r.Camera()
	v.r.SetPose(cam.Dolly(steps * cam.Distance() / 10))
}

func (v *viewer) reset() {
	v.sc.Reset(v.st)
	v.r.SetPose(v.pose)
}

func (v *viewer) kick() {
	const strength = 2.0 // degrees per frame
	v.st.Kick(
		math3d.Radians((rand.Float64()-0.5)*strength),
		math3d.Radians((rand.Float64()-0.5)*strength),
		math3d.Radians((rand.Float64()-0.5)*strength),
	)
}

func runPNG(ctx context.Context, v *viewer, path string, n int) error {
	if err := v.rebuild(v.cfg, 1); err != nil {
		return err
	}

	var stats render.FrameStats
	for i := range n {
		var err error
		stats, err = v.r.Frame(ctx, v.sc, v.st, v.fb)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", i+1, err)
		}
	}
	if err := v.fb.SavePNG(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %s: %dx%d, frame %d, %d of %d samples hit %d triangles in %v\n",
		path, v.fb.Width, v.fb.Height, stats.Frame, stats.Hits, stats.Samples, stats.Triangles, stats.Elapsed)
	return nil
}

func runTerminal(ctx context.Context, v *viewer, modelPath string) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	if err := v.build(render.TerminalSize(width, height)); err != nil {
		return err
	}

	title := "cube"
	if modelPath != "" {
		title = filepath.Base(modelPath)
	}
	hud := NewHUD(title)

	ctx, cancel := context.WithCancel(ctx)

	// Input and reloads are applied on the render goroutine between frames.
	actions := make(chan func() error, 16)
	send := func(fn func() error) {
		select {
		case actions <- fn:
		case <-ctx.Done():
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				send(func() error {
					width, height = w, h
					term.Erase()
					if err := term.Resize(w, h); err != nil {
						return fmt.Errorf("resize terminal: %w", err)
					}
					return v.build(render.TerminalSize(w, h))
				})

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
					return
				case ev.MatchString("+", "="):
					send(func() error { v.zoom(1); return nil })
				case ev.MatchString("-", "_"):
					send(func() error { v.zoom(-1); return nil })
				case ev.MatchString("space"):
					send(func() error { v.kick(); return nil })
				case ev.MatchString("r"):
					send(func() error { v.reset(); return nil })
				case ev.MatchString("?", "shift+/"):
					send(func() error { hud.Visible = !hud.Visible; return nil })
				}
			}
		}
	}()

	if *watchModel && modelPath != "" {
		wg.Go(func() {
			err := models.Watch(ctx, modelPath, func(m *models.Mesh, err error) {
				send(func() error {
					if err != nil {
						v.logger.Printf("Warning: reload failed: %v", err)
						return nil
					}
					v.mesh = m
					v.logger.Printf("Reloaded %s (%d triangles)", filepath.Base(modelPath), m.TriangleCount())
					return v.build(render.TerminalSize(width, height))
				})
			})
			if err != nil {
				v.logger.Printf("Warning: %v", err)
			}
		})
	}

	targetDuration := time.Second / time.Duration(*targetFPS)

	for {
		now := time.Now()

		for drained := false; !drained; {
			select {
			case <-ctx.Done():
				return nil
			case fn := <-actions:
				if err := fn(); err != nil {
					return err
				}
			default:
				drained = true
			}
		}

		stats, err := v.r.Frame(ctx, v.sc, v.st, v.fb)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("render frame: %w", err)
		}

		term.Draw(v.fb)
		hud.Update(stats)
		hud.Draw(term)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(targetDuration - elapsed):
			}
		}
	}
}
