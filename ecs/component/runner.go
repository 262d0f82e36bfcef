package component

// Runner is the pursued character. Speed grows by SpeedIncreasePerPoint for
// every point scored.
type Runner struct {
	Speed                 float32
	LateralMultiplier     float32
	JumpVelocity          float32
	GroundMargin          float32
	DeathHeight           float32
	SpeedIncreasePerPoint float32

	Alive    bool
	Points   int
	StartZ   float32
	Distance float32
}

var RunnerComponent = NewComponent[Runner]()

// AddPoint scores one point and speeds the runner up.
func (r *Runner) AddPoint() {
	if r == nil {
		return
	}
	r.Points++
	r.Speed += r.SpeedIncreasePerPoint
}

// RunnerInput is the per-tick steering intent. Jump is consumed by the
// runner system.
type RunnerInput struct {
	Horizontal float32
	Jump       bool
}

var RunnerInputComponent = NewComponent[RunnerInput]()
