package pursuit

import "github.com/go-gl/mathgl/mgl32"

type jumpPhase int

const (
	jumpIdle jumpPhase = iota
	// jumpLaunch waits for the physics step that integrates the impulse.
	jumpLaunch
	// jumpAirborne polls the grounded probe once per step.
	jumpAirborne
	// jumpSettle waits one more step before handing control back.
	jumpSettle
)

// jumpMachine is the resumable jump sequence. It is advanced by PhysicsStep
// exactly once per simulation step.
type jumpMachine struct {
	phase    jumpPhase
	polls    int
	grounded bool
}

// minHorizontalSpeedSqr filters out navigator velocity noise before a jump.
const minHorizontalSpeedSqr = 0.01

func (c *Controller) beginJump() {
	if c.body == nil || c.nav == nil || c.state == Jumping {
		return
	}

	var horizontal mgl32.Vec3
	if v := c.nav.Velocity(); v.Dot(v) > minHorizontalSpeedSqr {
		horizontal = mgl32.Vec3{v.X(), 0, v.Z()}
	}
	speed := c.nav.Speed()

	c.state = Jumping
	c.nav.SetEnabled(false)

	c.body.SetVelocity(horizontal)
	c.body.AddVelocityChange(mgl32.Vec3{0, c.cfg.JumpUpVelocity, 0})
	c.body.AddVelocityChange(c.body.Forward().Mul(speed * c.cfg.ForwardJumpMultiplier))

	c.jump = jumpMachine{phase: jumpLaunch}
	c.log.WithField("position", c.body.Position()).Debug("pursuit: jumping obstacle")
	c.emit(Event{Kind: EventJumpStarted, Position: c.body.Position()})
}

// PhysicsStep advances an in-flight jump by one simulation step. It must be
// called after the physics world has integrated that step.
func (c *Controller) PhysicsStep(dt float32) {
	if c == nil || c.state != Jumping {
		return
	}

	switch c.jump.phase {
	case jumpLaunch:
		c.jump.phase = jumpAirborne
	case jumpAirborne:
		c.jump.polls++
		if c.Grounded() {
			c.jump.grounded = true
			c.jump.phase = jumpSettle
		} else if c.jump.polls >= c.cfg.MaxGroundPolls {
			c.jump.phase = jumpSettle
		}
	case jumpSettle:
		c.finishJump()
	default:
		// Jumping without a running sequence is never valid; hand control back.
		c.finishJump()
	}
}

func (c *Controller) finishJump() {
	result := JumpResult{Polls: c.jump.polls, Grounded: c.jump.grounded}
	c.jump = jumpMachine{}

	c.Recover()
	c.nav.SetEnabled(true)
	c.state = Following
	// the navigator dropped its path when disabled, so the next repath
	// must not be suppressed by the displacement threshold
	c.lastDest = unsetDestination

	c.lastJump = result
	fields := c.log.WithField("polls", result.Polls)
	if !result.Grounded {
		fields.Debug("pursuit: jump never grounded, resuming anyway")
	}
	c.emit(Event{Kind: EventJumpLanded, Position: c.nav.Position(), Jump: result})
}
