package system

import (
	"errors"
	"testing"

	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
)

func scriptSource(scripts map[string]string) ScriptLoader {
	return func(name string) ([]byte, error) {
		src, ok := scripts[name]
		if !ok {
			return nil, errors.New("no such script")
		}
		return []byte(src), nil
	}
}

func addPilot(t *testing.T, s *runnerScene, script string) {
	t.Helper()
	if err := ecs.Add(s.world, s.entity, component.PilotComponent.Kind(), &component.Pilot{Script: script}); err != nil {
		t.Fatal(err)
	}
}

func TestPilotDrivesInput(t *testing.T) {
	s := newRunnerScene(t)
	addPilot(t, s, "steer")
	ps := NewPilotSystem(quietLogger(), scriptSource(map[string]string{
		"steer": "horizontal = tick < 3 ? -3.0 : 0.25\njump = tick == 2\n",
	}))

	ps.Update(s.world)
	if s.input.Horizontal != -1 || s.input.Jump {
		t.Fatalf("tick 1: %+v", *s.input)
	}
	ps.Update(s.world)
	if !s.input.Jump {
		t.Fatal("tick 2 should request a jump")
	}
	ps.Update(s.world)
	if s.input.Horizontal != 0.25 {
		t.Fatalf("tick 3: %+v", *s.input)
	}
	if !s.input.Jump {
		t.Fatal("an unconsumed jump request must survive until the runner system sees it")
	}
}

func TestPilotReadsRunnerState(t *testing.T) {
	s := newRunnerScene(t)
	addPilot(t, s, "fast")
	ps := NewPilotSystem(quietLogger(), scriptSource(map[string]string{
		"fast": "horizontal = speed > 4.0 && z > 1.5 ? 1.0 : -1.0\n",
	}))
	ps.Update(s.world)
	if s.input.Horizontal != 1 {
		t.Fatalf("script should see speed and position, got %v", s.input.Horizontal)
	}
}

func TestPilotBadScripts(t *testing.T) {
	cases := []struct {
		name   string
		script string
		src    map[string]string
	}{
		{"missing", "ghost", map[string]string{}},
		{"compile_error", "bad", map[string]string{"bad": "horizontal = (\n"}},
		{"runtime_error", "boom", map[string]string{"boom": "f := 1\nhorizontal = f()\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newRunnerScene(t)
			s.input.Horizontal = 0.5
			addPilot(t, s, tc.script)
			ps := NewPilotSystem(quietLogger(), scriptSource(tc.src))
			ps.Update(s.world)
			ps.Update(s.world)
			if s.input.Horizontal != 0.5 {
				t.Fatalf("failing script must leave the last input, got %v", s.input.Horizontal)
			}
		})
	}
}

func TestPilotDropsRuntimeWhenComponentRemoved(t *testing.T) {
	s := newRunnerScene(t)
	addPilot(t, s, "idle")
	ps := NewPilotSystem(quietLogger(), scriptSource(map[string]string{"idle": "horizontal = 0.0\n"}))
	ps.Update(s.world)
	if len(ps.runtimes) != 1 {
		t.Fatalf("expected a cached runtime, got %d", len(ps.runtimes))
	}
	ecs.Remove(s.world, s.entity, component.PilotComponent.Kind())
	ps.Update(s.world)
	if len(ps.runtimes) != 0 {
		t.Fatal("runtime should be dropped with its component")
	}
}
