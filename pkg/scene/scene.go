// Package scene holds the animated triangle mesh rendered by the ray caster:
// an immutable base mesh, its initial pose, and the per-instance simulation
// state advanced once per frame.
package scene

import (
	"slices"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
)

// MeshConfig is the base mesh and the pose it starts in.
type MeshConfig struct {
	Triangles []geom.Triangle
	Pose      math3d.Matrix
}

// Animation describes how the mesh spins. Each frame the accumulated Euler
// angles grow by the velocities (radians per frame), and the running pose is
// rotated by the accumulated angles about X, then Y, then Z.
type Animation struct {
	VelocityX float64
	VelocityY float64
	VelocityZ float64

	// Ease makes the per-frame rates approach the velocities on a critically
	// damped spring instead of jumping to them on the first frame.
	Ease bool
	// FPS is the frame rate the spring is tuned for. Defaults to 60.
	FPS int
}

// Scene is an immutable base mesh plus animation settings. Many States may
// advance against the same Scene.
type Scene struct {
	base []geom.Triangle
	pose math3d.Matrix
	anim Animation
}

// New creates a scene. The triangles are copied.
func New(mesh MeshConfig, anim Animation) *Scene {
	if anim.FPS <= 0 {
		anim.FPS = 60
	}
	return &Scene{
		base: slices.Clone(mesh.Triangles),
		pose: mesh.Pose,
		anim: anim,
	}
}

// Len returns the number of triangles in the base mesh.
func (s *Scene) Len() int {
	return len(s.base)
}

// Base returns a copy of the untransformed mesh.
func (s *Scene) Base() []geom.Triangle {
	return slices.Clone(s.base)
}

// State is the simulation state of one renderer instance.
type State struct {
	Alpha, Beta, Theta float64       // accumulated angles about X, Y, Z
	Pose               math3d.Matrix // running mesh transform
	Frame              uint64

	rate    [3]float64 // base rates, eased toward the velocities
	rateVel [3]float64
	kick    [3]float64 // impulse on top of rate, decays toward zero
	kickVel [3]float64
	applied [3]float64
	spring  harmonica.Spring
}

// NewState returns a state at the scene's initial pose.
func (s *Scene) NewState() *State {
	st := &State{
		Pose:   s.pose,
		spring: harmonica.NewSpring(harmonica.FPS(s.anim.FPS), 4.0, 1.0),
	}
	if !s.anim.Ease {
		st.rate = s.target()
	}
	st.applied = st.rate
	return st
}

// Reset returns st to the scene's initial pose and rates.
func (s *Scene) Reset(st *State) {
	*st = *s.NewState()
}

func (s *Scene) target() [3]float64 {
	return [3]float64{s.anim.VelocityX, s.anim.VelocityY, s.anim.VelocityZ}
}

// Advance moves st forward one frame.
func (s *Scene) Advance(st *State) {
	target := s.target()
	if s.anim.Ease {
		for i := range st.rate {
			st.rate[i], st.rateVel[i] = st.spring.Update(st.rate[i], st.rateVel[i], target[i])
		}
	} else {
		st.rate = target
	}
	for i := range st.kick {
		st.applied[i] = st.rate[i] + st.kick[i]
		st.kick[i], st.kickVel[i] = st.spring.Update(st.kick[i], st.kickVel[i], 0)
	}

	st.Alpha += st.applied[0]
	st.Beta += st.applied[1]
	st.Theta += st.applied[2]

	st.Pose = st.Pose.RotateX(st.Alpha).RotateY(st.Beta).RotateZ(st.Theta)
	st.Frame++
}

// Mesh returns the base mesh transformed by st's pose. The base mesh is
// never modified.
func (s *Scene) Mesh(st *State) []geom.Triangle {
	out := make([]geom.Triangle, len(s.base))
	for i, tri := range s.base {
		out[i] = tri.Transform(st.Pose)
	}
	return out
}

// Rates returns the per-frame angle increments applied by the last Advance.
func (st *State) Rates() (x, y, z float64) {
	return st.applied[0], st.applied[1], st.applied[2]
}

// Kick adds an impulse to the per-frame rates. The next Advance applies it in
// full, after which it decays back to zero on the spring whether or not the
// animation eases.
func (st *State) Kick(dx, dy, dz float64) {
	st.kick[0] += dx
	st.kick[1] += dy
	st.kick[2] += dz
}
