package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/physics"
	"github.com/milk9111/runner/pursuit"
)

func TestNewTargetCapabilities(t *testing.T) {
	w := physics.NewWorld()
	body := w.NewBody(mgl32.Vec3{1, 0.5, 3}, 1, 1, "Player")
	body.SetVelocity(mgl32.Vec3{0, 0, 4})

	plain := NewTarget(body, nil)
	if _, ok := plain.(pursuit.VelocitySource); !ok {
		t.Fatal("body target should expose velocity")
	}
	if _, ok := plain.(pursuit.SpeedSource); ok {
		t.Fatal("body target without runner must not expose speed")
	}

	full := NewTarget(body, &component.Runner{Speed: 7})
	s, ok := full.(pursuit.SpeedSource)
	if !ok || s.Speed() != 7 {
		t.Fatal("runner target should expose speed")
	}
	if full.ID() != body.ColliderID() || full.Position() != body.Position() {
		t.Fatal("target should mirror its body")
	}
	if NewTarget(nil, nil) != nil {
		t.Fatal("no body, no target")
	}
}

func TestTagResolver(t *testing.T) {
	w := ecs.NewWorld()
	phys := physics.NewWorld()

	add := func(tag string, runner bool) *physics.Body {
		e := ecs.CreateEntity(w)
		b := phys.NewBody(mgl32.Vec3{}, 1, 1, tag)
		_ = ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: tag})
		_ = ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: b})
		if runner {
			_ = ecs.Add(w, e, component.RunnerComponent.Kind(), &component.Runner{Speed: 5})
		}
		return b
	}
	add("Enemy", false)
	player := add("Player", true)

	r := TagResolver{World: w}
	got, ok := r.FindWithTag("Player")
	if !ok || got.ID() != player.ColliderID() {
		t.Fatalf("expected the player, got %v", got)
	}
	if _, ok := got.(pursuit.SpeedSource); !ok {
		t.Fatal("runner entity should resolve with speed")
	}
	if _, ok := r.FindWithTag("Coin"); ok {
		t.Fatal("unknown tag should not resolve")
	}
}
