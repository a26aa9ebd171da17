// raycast-window - Desktop ray caster
// Shows the same scene as raycast in a window, one film sample per block of
// pixels.
//
// Controls:
//
//	+/-    - Move the camera forward/back
//	Space  - Random spin
//	R      - Reset rotation and camera
//	?      - Toggle HUD overlay
//	Esc    - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
	"github.com/taigrr/raycast/pkg/render"
	"github.com/taigrr/raycast/pkg/scene"
)

var (
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	bgColor    = flag.String("bg", "255,255,255", "Background color (R,G,B)")
	workers    = flag.Int("workers", 0, "Goroutines casting rays (0 = one per CPU)")
	tolerance  = flag.Float64("k", float64(geom.DefaultToleranceScale), "Inside-test tolerance scale")
	pixelSize  = flag.Float64("px", 3, "Film units per sample")
	zoom       = flag.Int("zoom", 2, "Window pixels per film unit")
	spin       = flag.Float64("spin", 1, "Spin speed multiplier")
	ease       = flag.Bool("ease", false, "Ease into the spin instead of starting at full speed")
	watchModel = flag.Bool("watch", false, "Reload the model when the file changes")
)

// Game implements ebiten.Game. Every tick advances the scene by one frame.
type Game struct {
	r    *render.Renderer
	pose math3d.Matrix
	sc   *scene.Scene
	st   *scene.State
	fb   *render.Framebuffer

	title   string
	stats   render.FrameStats
	showHUD bool
	reloads chan *models.Mesh
}

// NewGame builds the renderer for cfg and the scene for mesh, or the demo
// cube when mesh is nil.
func NewGame(cfg render.Config, mesh *models.Mesh, title string) (*Game, error) {
	r, err := render.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	fb := render.NewFramebuffer(r.Film().ScreenSize())
	fb.Background = cfg.Background

	g := &Game{
		r:       r,
		pose:    cfg.Camera.Pose,
		fb:      fb,
		title:   title,
		reloads: make(chan *models.Mesh, 1),
	}
	g.load(mesh)
	return g, nil
}

func (g *Game) load(mesh *models.Mesh) {
	mc, anim := scene.Demo(1)
	if mesh != nil {
		mc = mesh.SceneConfig(1, nil)
	}
	anim.VelocityX *= *spin
	anim.VelocityY *= *spin
	anim.VelocityZ *= *spin
	anim.Ease = *ease
	anim.FPS = *targetFPS

	g.sc = scene.New(mc, anim)
	g.st = g.sc.NewState()
	g.r.ResetWarnings()
}

func (g *Game) Update() error {
	select {
	case m := <-g.reloads:
		g.load(m)
	default:
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		cam := g.r.Camera()
		g.r.SetPose(cam.Dolly(cam.Distance() / 10))
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		cam := g.r.Camera()
		g.r.SetPose(cam.Dolly(-cam.Distance() / 10))
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		const strength = 2.0 // degrees per frame
		g.st.Kick(
			math3d.Radians((rand.Float64()-0.5)*strength),
			math3d.Radians((rand.Float64()-0.5)*strength),
			math3d.Radians((rand.Float64()-0.5)*strength),
		)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sc.Reset(g.st)
		g.r.SetPose(g.pose)
	case inpututil.IsKeyJustPressed(ebiten.KeySlash):
		g.showHUD = !g.showHUD
	}

	stats, err := g.r.Frame(context.Background(), g.sc, g.st, g.fb)
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	g.stats = stats
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.fb.ToImage().Pix)
	if g.showHUD {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n%.0f FPS\n%d tris\n%d/%d hits\nframe %d",
			g.title, ebiten.ActualFPS(), g.stats.Triangles, g.stats.Hits, g.stats.Samples, g.stats.Frame))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raycast-window - Desktop ray caster\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raycast-window [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *targetFPS <= 0 || *zoom <= 0 {
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

	var mesh *models.Mesh
	title := "cube"
	if modelPath != "" {
		mesh, err = models.LoadGLB(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		title = filepath.Base(modelPath)
	}

	game, err := NewGame(cfg, mesh, title)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *watchModel && modelPath != "" {
		go func() {
			err := models.Watch(ctx, modelPath, func(m *models.Mesh, err error) {
				if err != nil {
					log.Printf("Warning: reload failed: %v", err)
					return
				}
				select {
				case game.reloads <- m:
				case <-ctx.Done():
				}
			})
			if err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
	}

	w, h := game.fb.Width, game.fb.Height
	ebiten.SetWindowSize(w * *zoom, h * *zoom)
	ebiten.SetWindowTitle("raycast - " + title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(*targetFPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
