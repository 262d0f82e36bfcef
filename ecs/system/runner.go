package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/physics"
)

const obstacleTag = "Obstacle"

// RunnerSystem moves runners forward at their speed, steers them sideways from
// their input, handles jumping and kills them on falls or obstacle contact.
type RunnerSystem struct {
	world *physics.World
}

func NewRunnerSystem(world *physics.World) *RunnerSystem {
	return &RunnerSystem{world: world}
}

func (rs *RunnerSystem) Update(w *ecs.World) {
	if rs == nil || w == nil {
		return
	}

	ecs.ForEach3(w, component.RunnerComponent.Kind(), component.RunnerInputComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, r *component.Runner, in *component.RunnerInput, rb *component.RigidBody) {
		body := rb.Body
		if body == nil || !r.Alive {
			return
		}

		if body.Position().Y() < r.DeathHeight || rs.touchingObstacle(body) {
			rs.kill(w, e, r, body)
			return
		}

		forward := body.Forward()
		right := mgl32.Vec3{forward.Z(), 0, -forward.X()}
		move := forward.Mul(r.Speed).Add(right.Mul(in.Horizontal * r.Speed * r.LateralMultiplier))
		body.SetVelocity(mgl32.Vec3{move.X(), body.Velocity().Y(), move.Z()})

		if in.Jump {
			in.Jump = false
			if rs.grounded(body, r.GroundMargin) {
				body.AddVelocityChange(mgl32.Vec3{0, r.JumpVelocity, 0})
			}
		}

		r.Distance = body.Position().Z() - r.StartZ
	})
}

func (rs *RunnerSystem) grounded(body *physics.Body, margin float32) bool {
	if rs.world == nil {
		return body.OnGround()
	}
	_, ok := rs.world.RaycastIgnoring(body.Position(), mgl32.Vec3{0, -1, 0}, body.Height()*0.5+margin, body.ColliderID())
	return ok
}

func (rs *RunnerSystem) touchingObstacle(body *physics.Body) bool {
	if rs.world == nil {
		return false
	}
	for _, id := range body.Contacts() {
		if c, ok := rs.world.Collider(id); ok && c.Tag == obstacleTag {
			return true
		}
	}
	return false
}

func (rs *RunnerSystem) kill(w *ecs.World, e ecs.Entity, r *component.Runner, body *physics.Body) {
	r.Alive = false
	body.SetVelocity(mgl32.Vec3{})
	body.SetKinematic(true)
	w.Events().Push(ecs.Event{Kind: ecs.EventRunnerDied, Entity: e, Position: body.Position()})
}
