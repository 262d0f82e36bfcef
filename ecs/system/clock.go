package system

// Clock turns variable frame times into a whole number of fixed simulation
// steps.
type Clock struct {
	step     float32
	maxSteps int
	acc      float32
	ticks    uint64
}

const defaultMaxSteps = 5

// NewClock creates a clock with the given step. At most maxSteps are run per
// frame; any backlog beyond that is dropped.
func NewClock(step float32, maxSteps int) *Clock {
	if step <= 0 {
		step = 1.0 / 50
	}
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &Clock{step: step, maxSteps: maxSteps}
}

func (c *Clock) Step() float32 { return c.step }
func (c *Clock) Ticks() uint64 { return c.ticks }

// Advance adds frameDt to the accumulator and returns how many fixed steps
// are due.
func (c *Clock) Advance(frameDt float32) int {
	if c == nil || frameDt <= 0 {
		return 0
	}
	c.acc += frameDt
	steps := 0
	for c.acc >= c.step && steps < c.maxSteps {
		c.acc -= c.step
		steps++
	}
	if steps == c.maxSteps && c.acc >= c.step {
		c.acc = 0
	}
	c.ticks += uint64(steps)
	return steps
}

// Alpha is the fraction of a step left in the accumulator.
func (c *Clock) Alpha() float32 {
	if c == nil {
		return 0
	}
	return c.acc / c.step
}
