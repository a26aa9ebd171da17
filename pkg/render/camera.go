package render

import (
	"fmt"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
)

// CameraConfig is the camera's starting pose and focal distance.
type CameraConfig struct {
	Pose          math3d.Matrix
	FocalDistance float64
}

// Camera casts one ray per film sample. The world-space far end of every
// ray is computed when the camera is built; a Camera never changes after
// that, so WithPose is the only way to move it.
type Camera struct {
	pose     math3d.Matrix
	film     *Film
	distance float64
	through  []math3d.Vec3
}

// NewCamera creates a camera at pose looking through film, with the film's
// samples pushed out to z = distance in camera space.
func NewCamera(pose math3d.Matrix, film *Film, distance float64) *Camera {
	c := &Camera{
		pose:     pose,
		film:     film,
		distance: distance,
		through:  make([]math3d.Vec3, film.Len()),
	}
	for i := range c.through {
		p := film.Space(i)
		c.through[i] = pose.MulVec3(math3d.V3(p.X, p.Y, distance))
	}
	return c
}

// WithPose returns a camera sharing c's film and focal distance at a new
// pose.
func (c *Camera) WithPose(pose math3d.Matrix) *Camera {
	return NewCamera(pose, c.film, c.distance)
}

// Trace returns the ray for sample i, from the camera position through the
// sample. It panics if i is out of range; see Ray for a checked variant.
func (c *Camera) Trace(i int) geom.Ray {
	return geom.NewRay(c.pose.Position(), c.through[i])
}

// Ray is Trace with a bounds check.
func (c *Camera) Ray(i int) (geom.Ray, error) {
	if i < 0 || i >= len(c.through) {
		return geom.Ray{}, fmt.Errorf("trace sample %d of %d: %w", i, len(c.through), ErrSampleIndex)
	}
	return c.Trace(i), nil
}

// Pose returns the camera transform.
func (c *Camera) Pose() math3d.Matrix {
	return c.pose
}

// Position returns the camera's world position.
func (c *Camera) Position() math3d.Vec3 {
	return c.pose.Position()
}

// Forward returns the unit view axis in world space.
func (c *Camera) Forward() math3d.Vec3 {
	return c.pose.MulVec3Dir(math3d.V3(0, 0, 1)).Normalize()
}

// Dolly returns c's pose moved d units along the view axis.
func (c *Camera) Dolly(d float64) math3d.Matrix {
	return c.pose.Translate(c.Forward().Scale(d))
}

// Film returns the sampling grid.
func (c *Camera) Film() *Film {
	return c.film
}

// Distance returns the focal distance.
func (c *Camera) Distance() float64 {
	return c.distance
}

// Len returns the number of rays, one per film sample.
func (c *Camera) Len() int {
	return len(c.through)
}
