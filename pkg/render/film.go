package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
)

var (
	// ErrInvalidFilm is returned for a film whose size or spacing is not a
	// positive finite number.
	ErrInvalidFilm = errors.New("render: invalid film size")
	// ErrEmptyFilm is returned for a film with zero width or height.
	ErrEmptyFilm = errors.New("render: film has no area")
	// ErrSampleIndex is returned for a sample index outside the film.
	ErrSampleIndex = errors.New("render: sample index out of range")
)

// FilmConfig describes the sampling grid in camera space.
type FilmConfig struct {
	Width     float64 // extent along x
	Height    float64 // extent along y
	PixelSize float64 // spacing between samples, also the blitted block size
	ZOffset   float64 // z of every sample before the focal distance is applied
}

// Film is a rectangular grid of samples. Samples are ordered row-major, top
// row first, left to right, and Screen(i) and Space(i) describe the same
// sample.
type Film struct {
	cfg        FilmConfig
	cols, rows int
	screen     []math3d.Vec2
	space      []math3d.Vec3
}

// NewFilm generates the sample grid. Rows run from y = +Height/2 down to
// -Height/2 and columns from x = -Width/2 to +Width/2, both in steps of
// PixelSize and both inclusive of the far edge when it lands on the grid.
func NewFilm(cfg FilmConfig) (*Film, error) {
	for _, v := range []float64{cfg.Width, cfg.Height, cfg.PixelSize} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("film %gx%g spacing %g: %w", cfg.Width, cfg.Height, cfg.PixelSize, ErrInvalidFilm)
		}
	}
	if cfg.PixelSize == 0 {
		return nil, fmt.Errorf("film spacing 0: %w", ErrInvalidFilm)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("film %gx%g: %w", cfg.Width, cfg.Height, ErrEmptyFilm)
	}
	if math.IsNaN(cfg.ZOffset) || math.IsInf(cfg.ZOffset, 0) {
		return nil, fmt.Errorf("film z offset %g: %w", cfg.ZOffset, ErrInvalidFilm)
	}
	if cfg.Width/cfg.PixelSize > maxSamplesPerAxis || cfg.Height/cfg.PixelSize > maxSamplesPerAxis {
		return nil, fmt.Errorf("film %gx%g spacing %g: too many samples: %w", cfg.Width, cfg.Height, cfg.PixelSize, ErrInvalidFilm)
	}

	// Counting steps with integers keeps float drift from dropping the last
	// row or column.
	cols := steps(cfg.Width, cfg.PixelSize)
	rows := steps(cfg.Height, cfg.PixelSize)

	halfW, halfH := cfg.Width/2, cfg.Height/2
	f := &Film{
		cfg:    cfg,
		cols:   cols,
		rows:   rows,
		screen: make([]math3d.Vec2, 0, cols*rows),
		space:  make([]math3d.Vec3, 0, cols*rows),
	}
	for r := range rows {
		y := halfH - float64(r)*cfg.PixelSize
		for c := range cols {
			x := -halfW + float64(c)*cfg.PixelSize
			f.screen = append(f.screen, math3d.V2(x+halfW, -y+halfH))
			f.space = append(f.space, math3d.V3(x, y, cfg.ZOffset))
		}
	}
	return f, nil
}

const maxSamplesPerAxis = 1 << 14

func steps(size, spacing float64) int {
	return int(math.Floor(size/spacing+1e-9)) + 1
}

// Config returns the configuration the film was built from.
func (f *Film) Config() FilmConfig {
	return f.cfg
}

// Len returns the number of samples.
func (f *Film) Len() int {
	return len(f.space)
}

// Grid returns the number of columns and rows.
func (f *Film) Grid() (cols, rows int) {
	return f.cols, f.rows
}

// PixelSize returns the sample spacing.
func (f *Film) PixelSize() float64 {
	return f.cfg.PixelSize
}

// Screen returns the screen-space position of sample i: origin top-left,
// y pointing down.
func (f *Film) Screen(i int) math3d.Vec2 {
	return f.screen[i]
}

// Space returns the camera-space position of sample i.
func (f *Film) Space(i int) math3d.Vec3 {
	return f.space[i]
}

// ScreenSize returns the pixel dimensions that hold the origin of every
// sample block.
func (f *Film) ScreenSize() (width, height int) {
	return int(math.Ceil(f.cfg.Width)) + 1, int(math.Ceil(f.cfg.Height)) + 1
}

// BlockSize returns the side, in whole pixels, of the block drawn for each
// sample.
func (f *Film) BlockSize() int {
	return max(1, int(math.Ceil(f.cfg.PixelSize)))
}
