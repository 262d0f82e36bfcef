package system

import (
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
)

// PursuitSystem ticks every chase controller and then lets its nav agent
// steer.
type PursuitSystem struct {
	dt float32
}

func NewPursuitSystem(dt float32) *PursuitSystem {
	return &PursuitSystem{dt: dt}
}

func (ps *PursuitSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.PursuerComponent.Kind(), func(_ ecs.Entity, p *component.Pursuer) {
		p.Controller.Tick(ps.dt)
		if p.Agent != nil {
			p.Agent.Update(ps.dt)
		}
	})
}
