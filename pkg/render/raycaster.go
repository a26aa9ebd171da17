package render

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/scene"
)

// FrameStats describes one rendered frame.
type FrameStats struct {
	Frame      uint64 // scene state frame counter after the advance
	Samples    int
	Triangles  int
	Hits       int // samples that resolved to a triangle
	Degenerate int // triangles skipped for having no plane
	Elapsed    time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for geometry warnings. The default is
// log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// Renderer casts every film sample against a mesh each frame.
//
// The current Camera is swapped atomically by SetPose and may be changed
// from any goroutine. Draw and Frame serialize with each other.
type Renderer struct {
	camera     atomic.Pointer[Camera]
	k          geom.ToleranceScale
	background color.RGBA
	workers    int
	logger     *log.Logger

	mu     sync.Mutex
	colors []color.RGBA
	warned map[int]struct{}
}

// New builds the film and camera described by cfg.
func New(cfg Config, opts ...Option) (*Renderer, error) {
	film, err := NewFilm(cfg.Film)
	if err != nil {
		return nil, fmt.Errorf("create film: %w", err)
	}
	if k := float64(cfg.Intersection.EpsilonScale); k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("check tolerance %v: %w", k, ErrInvalidTolerance)
	}

	r := &Renderer{
		k:          cfg.Intersection.EpsilonScale,
		background: cfg.Background,
		workers:    cfg.Workers,
		logger:     log.Default(),
		warned:     make(map[int]struct{}),
	}
	if r.k == 0 {
		r.k = geom.DefaultToleranceScale
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	for _, opt := range opts {
		opt(r)
	}

	r.camera.Store(NewCamera(cfg.Camera.Pose, film, cfg.Camera.FocalDistance))
	return r, nil
}

// Camera returns the current camera.
func (r *Renderer) Camera() *Camera {
	return r.camera.Load()
}

// SetPose replaces the camera with one at pose. Frames already casting keep
// the camera they started with.
func (r *Renderer) SetPose(pose math3d.Matrix) {
	r.camera.Store(r.camera.Load().WithPose(pose))
}

// Film returns the sampling grid.
func (r *Renderer) Film() *Film {
	return r.camera.Load().Film()
}

// ResetWarnings forgets which mesh slots were reported as degenerate, for
// use after the mesh is replaced.
func (r *Renderer) ResetWarnings() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.warned)
}

// Frame advances st by one frame, transforms the scene's base mesh by the
// new pose and draws it.
func (r *Renderer) Frame(ctx context.Context, sc *scene.Scene, st *scene.State, sink PixelSink) (FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return FrameStats{}, err
	}
	start := time.Now()

	sc.Advance(st)
	stats, err := r.Draw(ctx, sc.Mesh(st), sink)
	stats.Frame = st.Frame
	stats.Elapsed = time.Since(start)
	return stats, err
}

// Draw casts every sample against tris and writes the result to sink: one
// Clear, then one block per sample in sample order. A sample takes the
// color of the triangle with the smallest t > 0, the first such triangle on
// ties, or the background.
func (r *Renderer) Draw(ctx context.Context, tris []geom.Triangle, sink PixelSink) (FrameStats, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	cam := r.camera.Load()
	stats := FrameStats{
		Samples:    cam.Len(),
		Triangles:  len(tris),
		Degenerate: r.checkDegenerate(tris),
	}

	film := cam.Film()
	sink.Clear(film.ScreenSize())

	hits, err := r.cast(ctx, cam, tris)
	if err != nil {
		return stats, err
	}
	stats.Hits = hits

	block := film.BlockSize()
	for i, c := range r.colors {
		p := film.Screen(i)
		sink.DrawPixelBlock(int(math.Round(p.X)), int(math.Round(p.Y)), block, block, c)
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// checkDegenerate counts triangles without a plane and logs each mesh slot
// the first time it turns up degenerate.
func (r *Renderer) checkDegenerate(tris []geom.Triangle) int {
	n := 0
	for i := range tris {
		if !tris[i].Degenerate() {
			continue
		}
		n++
		if _, ok := r.warned[i]; ok {
			continue
		}
		r.warned[i] = struct{}{}
		r.logger.Printf("Warning: triangle %d is degenerate, skipping: %v", i, tris[i].Err())
	}
	return n
}

// cast fills r.colors for every sample and returns the number of hits.
// Samples are split into contiguous shards, one per worker; the mesh is only
// read.
func (r *Renderer) cast(ctx context.Context, cam *Camera, tris []geom.Triangle) (int, error) {
	n := cam.Len()
	if cap(r.colors) < n {
		r.colors = make([]color.RGBA, n)
	}
	r.colors = r.colors[:n]

	workers := min(r.workers, n)
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return r.castRange(cam, tris, 0, n), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	hits := make([]int, workers)
	chunk := (n + workers - 1) / workers
	for w := range workers {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hits[w] = r.castRange(cam, tris, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("cast samples: %w", err)
	}

	total := 0
	for _, h := range hits {
		total += h
	}
	return total, nil
}

func (r *Renderer) castRange(cam *Camera, tris []geom.Triangle, lo, hi int) int {
	hits := 0
	for i := lo; i < hi; i++ {
		ray := cam.Trace(i)
		ray.Color = r.background
		out, _, idx := geom.Nearest(ray, tris, r.k)
		r.colors[i] = out.Color
		if idx >= 0 {
			hits++
		}
	}
	return hits
}
