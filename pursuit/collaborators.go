package pursuit

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/nav"
	"github.com/milk9111/runner/physics"
)

// Navigator is the path-following capability of the pursuing agent.
// Position reports the agent's transform position, which keeps tracking the
// rigid body while the navigator is disabled.
type Navigator interface {
	Position() mgl32.Vec3
	Velocity() mgl32.Vec3

	SetDestination(p mgl32.Vec3) bool
	ResetPath()
	Warp(p mgl32.Vec3) bool
	SamplePosition(p mgl32.Vec3, radius float32) (mgl32.Vec3, bool)

	PathPending() bool
	PathStatus() nav.PathStatus
	IsPathStale() bool
	IsOnMesh() bool

	Speed() float32
	SetSpeed(speed float32)
	Acceleration() float32
	SetAcceleration(accel float32)
	AngularSpeed() float32
	SetAngularSpeed(degPerSec float32)
	SetAutoBraking(enabled bool)
	SetAutoRepath(enabled bool)

	Enabled() bool
	SetEnabled(enabled bool)
}

// Prober casts rays against the collision world.
type Prober interface {
	Raycast(origin, dir mgl32.Vec3, maxDist float32) (physics.Hit, bool)
}

// Body is the rigid body the pursuer is simulated with while airborne.
type Body interface {
	Position() mgl32.Vec3
	Forward() mgl32.Vec3
	Velocity() mgl32.Vec3
	SetVelocity(v mgl32.Vec3)
	AddVelocityChange(dv mgl32.Vec3)
	Height() float32
}

// Target is the pursued entity. Velocity and speed are optional and are
// discovered through VelocitySource and SpeedSource.
type Target interface {
	Position() mgl32.Vec3
	Forward() mgl32.Vec3
	ID() physics.ColliderID
}

// VelocitySource is implemented by targets that expose a linear velocity.
type VelocitySource interface {
	Velocity() mgl32.Vec3
}

// SpeedSource is implemented by targets that expose a scalar forward speed.
type SpeedSource interface {
	Speed() float32
}

// TargetResolver looks a target up by tag.
type TargetResolver interface {
	FindWithTag(tag string) (Target, bool)
}

// TargetResolverFunc adapts a function to TargetResolver.
type TargetResolverFunc func(tag string) (Target, bool)

func (f TargetResolverFunc) FindWithTag(tag string) (Target, bool) {
	return f(tag)
}
