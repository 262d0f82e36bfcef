package pursuit

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by Config.Validate.
var ErrInvalidConfig = errors.New("pursuit: invalid config")

// Config tunes a Controller. It is copied into the controller at construction
// and never mutated afterwards.
type Config struct {
	// RepathInterval is how often (seconds) the destination is refreshed.
	RepathInterval float32
	// SpeedMultiplier keeps the pursuer slightly faster than the target.
	SpeedMultiplier float32
	// PredictionHorizon is how far ahead (seconds) the target is extrapolated.
	PredictionHorizon float32
	// MinRepathDisplacement is the distance the predicted point must move
	// before a new destination is requested.
	MinRepathDisplacement float32

	ObstacleDetectDistance float32
	MaxJumpableHeight      float32
	JumpUpVelocity         float32
	ForwardJumpMultiplier  float32
	// ProbeHeight lifts the obstacle probe origin above the agent position.
	ProbeHeight float32
	// GroundMargin extends the grounded probe past half the body height.
	GroundMargin float32
	// MaxGroundPolls caps how many steps a jump may stay airborne.
	MaxGroundPolls int

	RecoverOffMesh        bool
	RecoverRadius         float32
	RecoverRadiusFallback float32

	MinAcceleration float32
	MinAngularSpeed float32

	// TargetTag is used to look the target up when none is wired explicitly.
	TargetTag string
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		RepathInterval:         0.15,
		SpeedMultiplier:        1.25,
		PredictionHorizon:      0.5,
		MinRepathDisplacement:  0.5,
		ObstacleDetectDistance: 1.2,
		MaxJumpableHeight:      1.2,
		JumpUpVelocity:         6,
		ForwardJumpMultiplier:  0.6,
		ProbeHeight:            0.5,
		GroundMargin:           0.1,
		MaxGroundPolls:         300,
		RecoverOffMesh:         true,
		RecoverRadius:          2,
		RecoverRadiusFallback:  5,
		MinAcceleration:        20,
		MinAngularSpeed:        120,
		TargetTag:              "Player",
	}
}

// Validate reports the first field that cannot drive a controller.
func (c Config) Validate() error {
	switch {
	case c.RepathInterval < 0:
		return fmt.Errorf("%w: repath interval %v is negative", ErrInvalidConfig, c.RepathInterval)
	case c.SpeedMultiplier <= 0:
		return fmt.Errorf("%w: speed multiplier %v must be positive", ErrInvalidConfig, c.SpeedMultiplier)
	case c.PredictionHorizon < 0:
		return fmt.Errorf("%w: prediction horizon %v is negative", ErrInvalidConfig, c.PredictionHorizon)
	case c.MinRepathDisplacement < 0:
		return fmt.Errorf("%w: min repath displacement %v is negative", ErrInvalidConfig, c.MinRepathDisplacement)
	case c.ObstacleDetectDistance < 0:
		return fmt.Errorf("%w: obstacle detect distance %v is negative", ErrInvalidConfig, c.ObstacleDetectDistance)
	case c.MaxJumpableHeight < 0:
		return fmt.Errorf("%w: max jumpable height %v is negative", ErrInvalidConfig, c.MaxJumpableHeight)
	case c.MaxGroundPolls <= 0:
		return fmt.Errorf("%w: max ground polls %d must be positive", ErrInvalidConfig, c.MaxGroundPolls)
	case c.RecoverRadius < 0 || c.RecoverRadiusFallback < 0:
		return fmt.Errorf("%w: recover radii %v/%v are negative", ErrInvalidConfig, c.RecoverRadius, c.RecoverRadiusFallback)
	}
	return nil
}
