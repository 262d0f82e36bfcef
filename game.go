package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/ecs/system"
	"github.com/milk9111/runner/nav"
	"github.com/milk9111/runner/physics"
	"github.com/milk9111/runner/prefabs"
	"github.com/milk9111/runner/pursuit"
	"github.com/sirupsen/logrus"
)

const (
	defaultStep = float32(1.0 / 50)
	groundTag   = "Ground"
	obstacleTag = "Obstacle"
	coinTag     = "Coin"
)

// GameConfig holds everything needed to build a scene.
type GameConfig struct {
	Level   *prefabs.LevelSpec
	Runner  *prefabs.RunnerSpec
	Pursuer *prefabs.PursuerSpec
	// Script overrides the runner's pilot script when set.
	Script string
	Step   float32
	Log    *logrus.Logger
}

// LoadGameConfig reads the named level and the stock runner and pursuer
// specs.
func LoadGameConfig(level, script string, log *logrus.Logger) (GameConfig, error) {
	lvl, err := prefabs.LoadLevelSpec(level)
	if err != nil {
		return GameConfig{}, err
	}
	runner, err := prefabs.LoadRunnerSpec("")
	if err != nil {
		return GameConfig{}, err
	}
	pursuer, err := prefabs.LoadPursuerSpec("")
	if err != nil {
		return GameConfig{}, err
	}
	return GameConfig{Level: lvl, Runner: runner, Pursuer: pursuer, Script: script, Log: log}, nil
}

// Game is a headless run of one level: a scripted runner chased by one
// pursuer.
type Game struct {
	log  *logrus.Logger
	step float32

	world     *ecs.World
	physics   *physics.World
	mesh      *nav.Mesh
	scheduler *ecs.Scheduler
	stats     *system.StatsSystem
	clock     *system.Clock

	runner  ecs.Entity
	pursuer ecs.Entity

	ticks  int
	minGap float32
}

func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Level == nil || cfg.Runner == nil || cfg.Pursuer == nil {
		return nil, fmt.Errorf("game: level, runner and pursuer specs are required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	step := cfg.Step
	if step <= 0 {
		step = defaultStep
	}

	g := &Game{
		log:     log,
		step:    step,
		world:   ecs.NewWorld(),
		physics: physics.NewWorld(),
		clock:   system.NewClock(step, 0),
		minGap:  -1,
	}

	g.buildLevel(cfg.Level)

	script := cfg.Runner.Script
	if cfg.Script != "" {
		script = cfg.Script
	}
	if err := g.spawnRunner(cfg.Runner, script); err != nil {
		return nil, err
	}
	if err := g.spawnPursuer(cfg.Pursuer); err != nil {
		return nil, err
	}

	g.stats = system.NewStatsSystem(log)
	g.scheduler = ecs.NewScheduler(
		system.NewPilotSystem(log, prefabs.LoadScript),
		system.NewRunnerSystem(g.physics),
		system.NewPursuitSystem(step),
		system.NewPhysicsSystem(g.physics, step),
		system.NewCoinSystem(g.physics),
		g.stats,
	)

	log.WithFields(logrus.Fields{
		"level":     cfg.Level.Name,
		"tiles":     cfg.Level.TileCount,
		"obstacles": ecs.Count(g.world, component.ObstacleComponent.Kind()),
		"coins":     ecs.Count(g.world, component.CoinComponent.Kind()),
		"script":    script,
	}).Info("scene built")
	return g, nil
}

func (g *Game) buildLevel(spec *prefabs.LevelSpec) {
	half := spec.TileWidth * 0.5
	length := float32(spec.TileCount) * spec.TileLength
	g.mesh = nav.NewMesh(-half, 0, half, length, spec.CellSize)

	rng := rand.New(rand.NewSource(spec.Seed)) // #nosec G404 -- level layout only
	for i := 0; i < spec.TileCount; i++ {
		z0 := float32(i) * spec.TileLength
		box := cube.Box(-half, -1, z0, half, 0, z0+spec.TileLength)
		c := g.physics.AddCollider(box, false, groundTag)
		g.mesh.AddSurface(box)

		tile := ecs.CreateEntity(g.world)
		_ = ecs.Add(g.world, tile, component.GroundTileComponent.Kind(), &component.GroundTile{Collider: c.ID, Index: i})

		if i < spec.SafeTiles || len(spec.Lanes) == 0 {
			continue
		}
		if len(spec.ObstacleHeights) > 0 {
			g.spawnObstacle(spec, rng, z0)
		}
		for n := 0; n < spec.CoinsPerTile; n++ {
			g.spawnCoin(spec, rng, z0)
		}
	}
}

func (g *Game) spawnCoin(spec *prefabs.LevelSpec, rng *rand.Rand, z0 float32) {
	size := spec.CoinSize
	if size <= 0 {
		size = 0.5
	}
	h := size * 0.5
	lane := spec.Lanes[rng.Intn(len(spec.Lanes))]
	z := z0 + spec.TileLength*rng.Float32()

	c := g.physics.AddCollider(cube.Box(lane-h, 0.5-h, z-h, lane+h, 0.5+h, z+h), true, coinTag)
	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.CoinComponent.Kind(), &component.Coin{Collider: c.ID})
}

func (g *Game) spawnObstacle(spec *prefabs.LevelSpec, rng *rand.Rand, z0 float32) {
	lane := spec.Lanes[rng.Intn(len(spec.Lanes))]
	height := spec.ObstacleHeights[rng.Intn(len(spec.ObstacleHeights))]
	z := z0 + spec.TileLength*(0.3+0.5*rng.Float32())
	hw, hd := spec.ObstacleWidth*0.5, spec.ObstacleDepth*0.5

	box := cube.Box(lane-hw, 0, z-hd, lane+hw, height, z+hd)
	c := g.physics.AddCollider(box, false, obstacleTag)
	carved := spec.CarveAbove > 0 && height > spec.CarveAbove
	if carved {
		g.mesh.Carve(box, spec.CarvePadding)
	}

	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.ObstacleComponent.Kind(), &component.Obstacle{Collider: c.ID, Height: height, Carved: carved})
	_ = ecs.Add(g.world, e, component.TagComponent.Kind(), &component.Tag{Name: obstacleTag})
}

func (g *Game) spawnRunner(spec *prefabs.RunnerSpec, script string) error {
	b := spec.Body
	body := g.physics.NewBody(mgl32.Vec3{b.StartX, b.Height * 0.5, b.StartZ}, b.Width, b.Height, spec.Tag)

	e := ecs.CreateEntity(g.world)
	runner := &component.Runner{
		Speed:                 spec.Speed,
		LateralMultiplier:     spec.LateralMultiplier,
		JumpVelocity:          spec.JumpVelocity,
		GroundMargin:          spec.GroundMargin,
		DeathHeight:           spec.DeathHeight,
		SpeedIncreasePerPoint: spec.SpeedIncreasePerPoint,
		Alive:                 true,
		StartZ:                b.StartZ,
	}
	if err := ecs.Add(g.world, e, component.RunnerComponent.Kind(), runner); err != nil {
		return fmt.Errorf("game: spawn runner: %w", err)
	}
	if err := ecs.Add(g.world, e, component.RunnerInputComponent.Kind(), &component.RunnerInput{}); err != nil {
		return fmt.Errorf("game: spawn runner: %w", err)
	}
	if err := ecs.Add(g.world, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body}); err != nil {
		return fmt.Errorf("game: spawn runner: %w", err)
	}
	if err := ecs.Add(g.world, e, component.TagComponent.Kind(), &component.Tag{Name: spec.Tag}); err != nil {
		return fmt.Errorf("game: spawn runner: %w", err)
	}
	if script != "" {
		if err := ecs.Add(g.world, e, component.PilotComponent.Kind(), &component.Pilot{Script: script}); err != nil {
			return fmt.Errorf("game: spawn runner: %w", err)
		}
	}
	g.runner = e
	return nil
}

func (g *Game) spawnPursuer(spec *prefabs.PursuerSpec) error {
	b := spec.Body
	body := g.physics.NewBody(mgl32.Vec3{b.StartX, b.Height * 0.5, b.StartZ}, b.Width, b.Height, spec.Tag)
	agent := nav.NewAgent(g.mesh, body, mgl32.Vec3{})
	if spec.Nav.Speed > 0 {
		agent.SetSpeed(spec.Nav.Speed)
	}
	if spec.Nav.Acceleration > 0 {
		agent.SetAcceleration(spec.Nav.Acceleration)
	}
	if spec.Nav.AngularSpeed > 0 {
		agent.SetAngularSpeed(spec.Nav.AngularSpeed)
	}

	e := ecs.CreateEntity(g.world)
	ctrl := pursuit.New(spec.Config(),
		pursuit.WithNavigator(agent),
		pursuit.WithBody(body),
		pursuit.WithProber(g.physics),
		pursuit.WithResolver(system.TagResolver{World: g.world}),
		pursuit.WithObserver(system.EventBridge(g.world, e)),
		pursuit.WithLogger(g.log),
	)
	if err := ctrl.Initialize(); err != nil {
		// the rest of the scene keeps running with an idle pursuer
		g.log.WithError(err).Error("pursuer disabled")
	}

	if err := ecs.Add(g.world, e, component.PursuerComponent.Kind(), &component.Pursuer{Controller: ctrl, Agent: agent}); err != nil {
		return fmt.Errorf("game: spawn pursuer: %w", err)
	}
	if err := ecs.Add(g.world, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body}); err != nil {
		return fmt.Errorf("game: spawn pursuer: %w", err)
	}
	if err := ecs.Add(g.world, e, component.TagComponent.Kind(), &component.Tag{Name: spec.Tag}); err != nil {
		return fmt.Errorf("game: spawn pursuer: %w", err)
	}
	g.pursuer = e
	return nil
}

// Step advances the simulation by one fixed tick.
func (g *Game) Step() {
	g.scheduler.Update(g.world)
	g.ticks++
	if gap, ok := g.gap(); ok && (g.minGap < 0 || gap < g.minGap) {
		g.minGap = gap
	}
}

// Run steps the simulation ticks times, or until the runner dies.
func (g *Game) Run(ticks int) Summary {
	for i := 0; i < ticks && !g.Over(); i++ {
		g.Step()
	}
	return g.Summary()
}

// Advance runs however many fixed steps frameDt of wall time is worth and
// returns that count.
func (g *Game) Advance(frameDt float32) int {
	steps := g.clock.Advance(frameDt)
	for i := 0; i < steps; i++ {
		g.Step()
	}
	return steps
}

// RunRealtime paces the simulation against the wall clock, polling every
// frame, until ticks have run, the runner dies or ctx is done.
func (g *Game) RunRealtime(ctx context.Context, ticks int, frame time.Duration) Summary {
	if frame <= 0 {
		frame = time.Second / 60
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for g.ticks < ticks && !g.Over() {
		select {
		case <-ctx.Done():
			return g.Summary()
		case now := <-ticker.C:
			g.Advance(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
	return g.Summary()
}

// Over reports whether the runner has died.
func (g *Game) Over() bool {
	r, ok := ecs.Get(g.world, g.runner, component.RunnerComponent.Kind())
	return ok && !r.Alive
}

// Close disables the pursuer and hands its body back to physics.
func (g *Game) Close() {
	if p, ok := ecs.Get(g.world, g.pursuer, component.PursuerComponent.Kind()); ok {
		p.Controller.Disable()
	}
}

func (g *Game) gap() (float32, bool) {
	rb, ok := ecs.Get(g.world, g.runner, component.RigidBodyComponent.Kind())
	if !ok {
		return 0, false
	}
	pb, ok := ecs.Get(g.world, g.pursuer, component.RigidBodyComponent.Kind())
	if !ok {
		return 0, false
	}
	return rb.Body.Position().Sub(pb.Body.Position()).Len(), true
}

func (g *Game) Summary() Summary {
	st := g.stats.Stats()
	s := Summary{
		Ticks:      g.ticks,
		Seconds:    float32(g.ticks) * g.step,
		Jumps:      st.Jumps,
		Landings:   st.Landings,
		StuckJumps: st.StuckJumps,
		Recoveries: st.Recoveries,
		Repaths:    st.Repaths,
		Coins:      st.Coins,
		MinGap:     g.minGap,
	}
	if r, ok := ecs.Get(g.world, g.runner, component.RunnerComponent.Kind()); ok {
		s.RunnerAlive = r.Alive
		s.RunnerDistance = r.Distance
		s.RunnerPoints = r.Points
		s.RunnerSpeed = r.Speed
	}
	if gap, ok := g.gap(); ok {
		s.Gap = gap
	}
	if p, ok := ecs.Get(g.world, g.pursuer, component.PursuerComponent.Kind()); ok {
		s.PursuerState = p.Controller.State().String()
		s.PursuerDisabled = p.Controller.Disabled()
	}
	return s
}

// Summary describes a finished or in-progress run.
type Summary struct {
	Ticks           int
	Seconds         float32
	Jumps           int
	Landings        int
	StuckJumps      int
	Recoveries      int
	Repaths         int
	Coins           int
	RunnerPoints    int
	RunnerSpeed     float32
	RunnerAlive     bool
	RunnerDistance  float32
	Gap             float32
	MinGap          float32
	PursuerState    string
	PursuerDisabled bool
}

func (s Summary) Log(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"ticks":       s.Ticks,
		"seconds":     s.Seconds,
		"jumps":       s.Jumps,
		"stuck_jumps": s.StuckJumps,
		"recoveries":  s.Recoveries,
		"repaths":     s.Repaths,
		"points":      s.RunnerPoints,
		"speed":       s.RunnerSpeed,
		"alive":       s.RunnerAlive,
		"distance":    s.RunnerDistance,
		"gap":         s.Gap,
		"min_gap":     s.MinGap,
		"pursuer":     s.PursuerState,
	}).Info("run finished")
}
