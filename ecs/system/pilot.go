package system

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/prefabs"
	"github.com/sirupsen/logrus"
)

// ScriptLoader returns the source of a pilot script by name.
type ScriptLoader func(name string) ([]byte, error)

// PilotSystem runs each runner's tengo pilot script once per tick. Scripts
// read tick, x, y, z, speed and grounded and assign horizontal (-1..1) and
// jump.
type PilotSystem struct {
	log      logrus.FieldLogger
	load     ScriptLoader
	tick     int
	runtimes map[ecs.Entity]*pilotRuntime
}

type pilotRuntime struct {
	script   string
	compiled *tengo.Compiled
	broken   bool
}

func NewPilotSystem(log logrus.FieldLogger, load ScriptLoader) *PilotSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if load == nil {
		load = prefabs.LoadScript
	}
	return &PilotSystem{
		log:      log.WithField("system", "pilot"),
		load:     load,
		runtimes: map[ecs.Entity]*pilotRuntime{},
	}
}

func (ps *PilotSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.tick++

	ecs.ForEach3(w, component.PilotComponent.Kind(), component.RunnerInputComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, pilot *component.Pilot, input *component.RunnerInput, rb *component.RigidBody) {
		if rb.Body == nil {
			return
		}
		rt, err := ps.runtime(e, pilot.Script)
		if err != nil {
			ps.log.WithError(err).WithField("entity", e).Error("pilot: load script")
			return
		}
		if rt.broken {
			return
		}

		speed := float32(0)
		if runner, ok := ecs.Get(w, e, component.RunnerComponent.Kind()); ok {
			if !runner.Alive {
				return
			}
			speed = runner.Speed
		}
		pos := rb.Body.Position()
		vars := map[string]any{
			"tick":     ps.tick,
			"x":        float64(pos.X()),
			"y":        float64(pos.Y()),
			"z":        float64(pos.Z()),
			"speed":    float64(speed),
			"grounded": rb.Body.OnGround(),
		}
		for name, v := range vars {
			if err := rt.compiled.Set(name, v); err != nil {
				ps.log.WithError(err).WithField("var", name).Error("pilot: set variable")
				return
			}
		}
		if err := rt.compiled.Run(); err != nil {
			// keep the last input; a runtime error usually repeats every tick
			ps.log.WithError(err).WithField("entity", e).Warn("pilot: script failed, disabling")
			rt.broken = true
			return
		}

		input.Horizontal = clampAxis(float32(rt.compiled.Get("horizontal").Float()))
		if rt.compiled.Get("jump").Bool() {
			input.Jump = true
		}
	})

	for e := range ps.runtimes {
		if !ecs.Has(w, e, component.PilotComponent.Kind()) {
			delete(ps.runtimes, e)
		}
	}
}

func (ps *PilotSystem) runtime(e ecs.Entity, script string) (*pilotRuntime, error) {
	if rt, ok := ps.runtimes[e]; ok && rt.script == script {
		return rt, nil
	}
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("pilot: empty script name")
	}

	src, err := ps.load(script)
	if err != nil {
		return nil, err
	}
	compiled, err := compilePilot(src)
	if err != nil {
		return nil, fmt.Errorf("pilot: compile %s: %w", script, err)
	}
	rt := &pilotRuntime{script: script, compiled: compiled}
	ps.runtimes[e] = rt
	return rt, nil
}

func compilePilot(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	_ = s.Add("tick", 0)
	_ = s.Add("x", 0.0)
	_ = s.Add("y", 0.0)
	_ = s.Add("z", 0.0)
	_ = s.Add("speed", 0.0)
	_ = s.Add("grounded", false)
	_ = s.Add("horizontal", 0.0)
	_ = s.Add("jump", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s.Compile()
}

func clampAxis(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return math32.Max(-1, math32.Min(1, v))
}
