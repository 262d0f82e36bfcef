package prefabs

import (
	"fmt"

	"github.com/milk9111/runner/pursuit"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type BodySpec struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	StartX float32 `yaml:"start_x"`
	StartZ float32 `yaml:"start_z"`
}

type NavSpec struct {
	Speed        float32 `yaml:"speed"`
	Acceleration float32 `yaml:"acceleration"`
	AngularSpeed float32 `yaml:"angular_speed"`
}

// PursuitSpec mirrors pursuit.Config. Zero fields keep their defaults.
type PursuitSpec struct {
	RepathInterval         float32 `yaml:"repath_interval"`
	SpeedMultiplier        float32 `yaml:"speed_multiplier"`
	PredictionHorizon      float32 `yaml:"prediction_horizon"`
	MinRepathDisplacement  float32 `yaml:"min_repath_displacement"`
	ObstacleDetectDistance float32 `yaml:"obstacle_detect_distance"`
	MaxJumpableHeight      float32 `yaml:"max_jumpable_height"`
	JumpUpVelocity         float32 `yaml:"jump_up_velocity"`
	ForwardJumpMultiplier  float32 `yaml:"forward_jump_multiplier"`
	ProbeHeight            float32 `yaml:"probe_height"`
	GroundMargin           float32 `yaml:"ground_margin"`
	MaxGroundPolls         int     `yaml:"max_ground_polls"`
	RecoverOffMesh         *bool   `yaml:"recover_off_mesh"`
	RecoverRadius          float32 `yaml:"recover_radius"`
	RecoverRadiusFallback  float32 `yaml:"recover_radius_fallback"`
	MinAcceleration        float32 `yaml:"min_acceleration"`
	MinAngularSpeed        float32 `yaml:"min_angular_speed"`
	TargetTag              string  `yaml:"target_tag"`
}

type PursuerSpec struct {
	Name    string      `yaml:"name"`
	Tag     string      `yaml:"tag"`
	Body    BodySpec    `yaml:"body"`
	Nav     NavSpec     `yaml:"nav"`
	Pursuit PursuitSpec `yaml:"pursuit"`
}

func LoadPursuerSpec(name string) (*PursuerSpec, error) {
	if name == "" {
		name = "pursuer.yaml"
	}
	spec, err := LoadSpec[PursuerSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts a pursuer spec into controller settings, keeping defaults
// for zero fields.
func (s *PursuerSpec) Config() pursuit.Config {
	cfg := pursuit.DefaultConfig()
	if s == nil {
		return cfg
	}
	p := s.Pursuit
	setF(&cfg.RepathInterval, p.RepathInterval)
	setF(&cfg.SpeedMultiplier, p.SpeedMultiplier)
	setF(&cfg.PredictionHorizon, p.PredictionHorizon)
	setF(&cfg.MinRepathDisplacement, p.MinRepathDisplacement)
	setF(&cfg.ObstacleDetectDistance, p.ObstacleDetectDistance)
	setF(&cfg.MaxJumpableHeight, p.MaxJumpableHeight)
	setF(&cfg.JumpUpVelocity, p.JumpUpVelocity)
	setF(&cfg.ForwardJumpMultiplier, p.ForwardJumpMultiplier)
	setF(&cfg.ProbeHeight, p.ProbeHeight)
	setF(&cfg.GroundMargin, p.GroundMargin)
	setF(&cfg.RecoverRadius, p.RecoverRadius)
	setF(&cfg.RecoverRadiusFallback, p.RecoverRadiusFallback)
	setF(&cfg.MinAcceleration, p.MinAcceleration)
	setF(&cfg.MinAngularSpeed, p.MinAngularSpeed)
	if p.MaxGroundPolls != 0 {
		cfg.MaxGroundPolls = p.MaxGroundPolls
	}
	if p.RecoverOffMesh != nil {
		cfg.RecoverOffMesh = *p.RecoverOffMesh
	}
	if p.TargetTag != "" {
		cfg.TargetTag = p.TargetTag
	}
	return cfg
}

type RunnerSpec struct {
	Name                  string   `yaml:"name"`
	Tag                   string   `yaml:"tag"`
	Body                  BodySpec `yaml:"body"`
	Speed                 float32  `yaml:"speed"`
	LateralMultiplier     float32  `yaml:"lateral_multiplier"`
	JumpVelocity          float32  `yaml:"jump_velocity"`
	GroundMargin          float32  `yaml:"ground_margin"`
	DeathHeight           float32  `yaml:"death_height"`
	SpeedIncreasePerPoint float32  `yaml:"speed_increase_per_point"`
	Script                string   `yaml:"script"`
}

func LoadRunnerSpec(name string) (*RunnerSpec, error) {
	if name == "" {
		name = "runner.yaml"
	}
	spec, err := LoadSpec[RunnerSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type LevelSpec struct {
	Name            string    `yaml:"name"`
	TileLength      float32   `yaml:"tile_length"`
	TileWidth       float32   `yaml:"tile_width"`
	TileCount       int       `yaml:"tile_count"`
	SafeTiles       int       `yaml:"safe_tiles"`
	Lanes           []float32 `yaml:"lanes"`
	ObstacleHeights []float32 `yaml:"obstacle_heights"`
	ObstacleWidth   float32   `yaml:"obstacle_width"`
	ObstacleDepth   float32   `yaml:"obstacle_depth"`
	CoinsPerTile    int       `yaml:"coins_per_tile"`
	CoinSize        float32   `yaml:"coin_size"`
	CarveAbove      float32   `yaml:"carve_above"`
	CarvePadding    float32   `yaml:"carve_padding"`
	CellSize        float32   `yaml:"cell_size"`
	Seed            int64     `yaml:"seed"`
}

func LoadLevelSpec(name string) (*LevelSpec, error) {
	if name == "" {
		name = "level.yaml"
	}
	spec, err := LoadSpec[LevelSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.TileCount <= 0 || spec.TileLength <= 0 || spec.TileWidth <= 0 {
		return nil, fmt.Errorf("prefabs: level %s: tile_count, tile_length and tile_width must be positive", name)
	}
	return &spec, nil
}

func setF(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}
