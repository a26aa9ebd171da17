package render

import (
	"errors"
	"image/color"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
)

// ErrInvalidTolerance is returned for an EpsilonScale that is negative or
// not finite.
var ErrInvalidTolerance = errors.New("render: invalid tolerance scale")

// IntersectionConfig tunes the triangle inside test.
type IntersectionConfig struct {
	// EpsilonScale is K in the area-sum test. Zero means
	// geom.DefaultToleranceScale.
	EpsilonScale geom.ToleranceScale
}

// Config is everything a Renderer needs besides the scene.
type Config struct {
	Film         FilmConfig
	Camera       CameraConfig
	Intersection IntersectionConfig

	// Background is the color of samples that hit nothing.
	Background color.RGBA

	// Workers is the number of goroutines casting samples. 1 casts on the
	// calling goroutine; 0 or less uses GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the classic setup: a 600x400 film sampled every 3
// units, a camera at the origin looking down +z with focal distance 600,
// and a white background.
func DefaultConfig() Config {
	return Config{
		Film: FilmConfig{
			Width:     600,
			Height:    400,
			PixelSize: 3,
		},
		Camera: CameraConfig{
			Pose:          math3d.Identity(),
			FocalDistance: 600,
		},
		Intersection: IntersectionConfig{
			EpsilonScale: geom.DefaultToleranceScale,
		},
		Background: geom.DefaultBackground,
		Workers:    1,
	}
}

// Resize returns c adapted to a width x height pixel sink with one sample
// per pixel. The focal distance, film offset and camera position are scaled
// by the same factor as the film height, so the vertical framing is kept;
// that factor is returned for scaling the scene to match.
func (c Config) Resize(width, height int) (Config, float64) {
	if width < 2 || height < 2 || c.Film.Height <= 0 {
		return c, 1
	}
	scale := float64(height-1) / c.Film.Height

	c.Film = FilmConfig{
		Width:     float64(width - 1),
		Height:    float64(height - 1),
		PixelSize: 1,
		ZOffset:   c.Film.ZOffset * scale,
	}
	c.Camera.FocalDistance *= scale
	pos := c.Camera.Pose.Position()
	c.Camera.Pose = c.Camera.Pose.Translate(pos.Scale(scale - 1))
	return c, scale
}
