package nav

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/physics"
)

const step = float32(0.02)

func TestAgentResolvesOnNextUpdate(t *testing.T) {
	a := NewAgent(flatMesh(), nil, mgl32.Vec3{0.5, 0, 0.5})
	if !a.SetDestination(mgl32.Vec3{5.5, 0, 0.5}) {
		t.Fatal("enabled agent should accept a destination")
	}
	if !a.PathPending() {
		t.Fatal("request should be pending until the next update")
	}
	a.Update(0)
	if a.PathPending() || !a.HasPath() || a.PathStatus() != PathComplete {
		t.Fatalf("pending=%v hasPath=%v status=%v", a.PathPending(), a.HasPath(), a.PathStatus())
	}
}

func TestAgentReachesDestination(t *testing.T) {
	a := NewAgent(flatMesh(), nil, mgl32.Vec3{0.5, 0, 0.5})
	dest := mgl32.Vec3{5.5, 0, 3.5}
	a.SetDestination(dest)
	for i := 0; i < 300; i++ {
		a.Update(step)
	}
	if d := a.Base().Sub(dest).Len(); d > 0.15 {
		t.Fatalf("agent stopped %v short at %v", d, a.Base())
	}
	if a.Velocity().Len() > 0.5 {
		t.Fatalf("agent should have braked, velocity %v", a.Velocity())
	}
}

func TestAgentSpeedLimit(t *testing.T) {
	a := NewAgent(flatMesh(), nil, mgl32.Vec3{0.5, 0, 0.5})
	a.SetAutoBraking(false)
	a.SetSpeed(2)
	a.SetDestination(mgl32.Vec3{9.5, 0, 0.5})
	for i := 0; i < 100; i++ {
		a.Update(step)
		if v := a.Velocity().Len(); v > 2+1e-4 {
			t.Fatalf("speed %v exceeds limit", v)
		}
	}
}

func TestAgentMeshChange(t *testing.T) {
	cases := []struct {
		name       string
		autoRepath bool
		wantStale  bool
	}{
		{"auto_repath", true, false},
		{"manual", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := flatMesh()
			a := NewAgent(m, nil, mgl32.Vec3{0.5, 0, 0.5})
			a.SetAutoRepath(tc.autoRepath)
			a.SetDestination(mgl32.Vec3{8.5, 0, 0.5})
			a.Update(0)

			m.Carve(cube.Box(4, 0, 0, 5, 2, 10), 0)
			a.Update(0)
			if a.IsPathStale() != tc.wantStale {
				t.Fatalf("stale=%v, want %v", a.IsPathStale(), tc.wantStale)
			}
			if !tc.wantStale && a.PathStatus() != PathPartial {
				t.Fatalf("rebuilt path status %v, want partial", a.PathStatus())
			}
		})
	}
}

func TestAgentWarp(t *testing.T) {
	a := NewAgent(flatMesh(), nil, mgl32.Vec3{0.5, 0, 0.5})
	a.SetDestination(mgl32.Vec3{8.5, 0, 8.5})
	a.Update(step)

	if a.Warp(mgl32.Vec3{20, 0, 20}) {
		t.Fatal("warp off the mesh must fail")
	}
	if !a.HasPath() {
		t.Fatal("failed warp must keep the path")
	}
	if !a.Warp(mgl32.Vec3{4, 0, 4}) {
		t.Fatal("warp onto the mesh must succeed")
	}
	if a.Base() != (mgl32.Vec3{4, 0, 4}) || a.HasPath() || a.Velocity() != (mgl32.Vec3{}) {
		t.Fatalf("warp left base=%v path=%v vel=%v", a.Base(), a.Path(), a.Velocity())
	}
}

func TestAgentEnableHandsBodyBack(t *testing.T) {
	w := physics.NewWorld()
	w.AddCollider(cube.Box(0, -1, 0, 10, 0, 10), false, "Ground")
	body := w.NewBody(mgl32.Vec3{0.5, 1, 0.5}, 1, 2, "Enemy")
	a := NewAgent(flatMesh(), body, mgl32.Vec3{})

	if !body.Kinematic() {
		t.Fatal("agent should drive its body kinematically")
	}
	if a.Base() != (mgl32.Vec3{0.5, 0, 0.5}) || a.Position() != body.Position() {
		t.Fatalf("base %v position %v", a.Base(), a.Position())
	}

	a.SetDestination(mgl32.Vec3{5.5, 0, 0.5})
	a.Update(step)
	a.SetEnabled(false)
	if body.Kinematic() || a.HasPath() || a.IsOnMesh() {
		t.Fatal("disabled agent must release the body and its path")
	}
	if a.SetDestination(mgl32.Vec3{1, 0, 1}) {
		t.Fatal("disabled agent must refuse destinations")
	}

	body.SetPosition(mgl32.Vec3{3.5, 1, 2.5})
	a.SetEnabled(true)
	if !body.Kinematic() || a.Base() != (mgl32.Vec3{3.5, 0, 2.5}) {
		t.Fatalf("re-enabled agent should resume from the body, base %v", a.Base())
	}
	if !a.IsOnMesh() {
		t.Fatal("agent should be back on the mesh")
	}
}

func TestAgentTurnRate(t *testing.T) {
	a := NewAgent(flatMesh(), nil, mgl32.Vec3{5.5, 0, 5.5})
	a.SetAngularSpeed(90)
	a.SetDestination(mgl32.Vec3{9.5, 0, 5.5})
	a.Update(0.1)

	yaw := mgl32.RadToDeg(math32.Atan2(a.Forward().X(), a.Forward().Z()))
	if math32.Abs(yaw-9) > 0.01 {
		t.Fatalf("turned %v degrees in 0.1s at 90 deg/s", yaw)
	}
}
