package system

import (
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/physics"
)

// PhysicsSystem integrates the physics world, then advances any jump in
// flight. Grounded polling therefore always sees the step just integrated.
type PhysicsSystem struct {
	world *physics.World
	dt    float32
}

func NewPhysicsSystem(world *physics.World, dt float32) *PhysicsSystem {
	return &PhysicsSystem{world: world, dt: dt}
}

func (ps *PhysicsSystem) World() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.world.Step(ps.dt)
	ecs.ForEach(w, component.PursuerComponent.Kind(), func(_ ecs.Entity, p *component.Pursuer) {
		p.Controller.PhysicsStep(ps.dt)
	})
}
