package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/physics"
	"github.com/milk9111/runner/pursuit"
)

// BodyTarget exposes a rigid body as a pursuit target with a known velocity.
type BodyTarget struct {
	Body *physics.Body
}

func (t BodyTarget) Position() mgl32.Vec3   { return t.Body.Position() }
func (t BodyTarget) Forward() mgl32.Vec3    { return t.Body.Forward() }
func (t BodyTarget) Velocity() mgl32.Vec3   { return t.Body.Velocity() }
func (t BodyTarget) ID() physics.ColliderID { return t.Body.ColliderID() }

// RunnerTarget additionally reports the runner's scalar speed.
type RunnerTarget struct {
	BodyTarget
	Runner *component.Runner
}

func (t RunnerTarget) Speed() float32 { return t.Runner.Speed }

// NewTarget picks the richest target view available for an entity.
func NewTarget(body *physics.Body, runner *component.Runner) pursuit.Target {
	if body == nil {
		return nil
	}
	if runner == nil {
		return BodyTarget{Body: body}
	}
	return RunnerTarget{BodyTarget: BodyTarget{Body: body}, Runner: runner}
}

// TagResolver finds targets by their Tag component.
type TagResolver struct {
	World *ecs.World
}

func (r TagResolver) FindWithTag(tag string) (pursuit.Target, bool) {
	var found pursuit.Target
	ecs.ForEach2(r.World, component.TagComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, t *component.Tag, rb *component.RigidBody) {
		if found != nil || t.Name != tag || rb.Body == nil {
			return
		}
		runner, _ := ecs.Get(r.World, e, component.RunnerComponent.Kind())
		found = NewTarget(rb.Body, runner)
	})
	return found, found != nil
}
