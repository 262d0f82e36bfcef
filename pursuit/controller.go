package pursuit

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/nav"
	"github.com/sirupsen/logrus"
)

// ErrNoNavigator is returned by Initialize when no navigator was wired.
var ErrNoNavigator = errors.New("pursuit: controller requires a navigator")

var unsetDestination = mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}

// Controller chases a target over a navigation mesh and jumps small obstacles
// in its way. The driver calls Tick once per simulation step and PhysicsStep
// once per step after physics has been integrated.
type Controller struct {
	cfg Config
	log logrus.FieldLogger

	nav      Navigator
	body     Body
	probe    Prober
	resolver TargetResolver
	observer Observer

	target   Target
	velocity VelocitySource
	speed    SpeedSource

	initialized bool
	disabled    bool

	state     State
	timer     float32
	lastDest  mgl32.Vec3
	predicted mgl32.Vec3

	jump     jumpMachine
	lastJump JumpResult
}

// Option configures a Controller.
type Option func(*Controller)

func WithNavigator(n Navigator) Option { return func(c *Controller) { c.nav = n } }
func WithBody(b Body) Option           { return func(c *Controller) { c.body = b } }
func WithProber(p Prober) Option       { return func(c *Controller) { c.probe = p } }
func WithTarget(t Target) Option       { return func(c *Controller) { c.target = t } }
func WithObserver(o Observer) Option   { return func(c *Controller) { c.observer = o } }

func WithResolver(r TargetResolver) Option {
	return func(c *Controller) { c.resolver = r }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a controller. Nothing is checked until Initialize.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		log:      logrus.StandardLogger(),
		lastDest: unsetDestination,
		// the first repath is due on the very first tick
		timer: cfg.RepathInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.log = c.log.WithField("component", "pursuit")
	return c
}

// Initialize binds the target and prepares the navigator. A missing
// navigator or an invalid config disables the controller; the returned error
// is informational and the rest of the simulation keeps running.
func (c *Controller) Initialize() error {
	if c == nil {
		return ErrNoNavigator
	}
	if err := c.cfg.Validate(); err != nil {
		c.log.WithError(err).Error("pursuit: disabling controller")
		c.disabled = true
		return err
	}
	if c.nav == nil {
		c.log.Error("pursuit: controller requires a navigator, disabling")
		c.disabled = true
		return ErrNoNavigator
	}
	if c.body == nil {
		c.log.Warn("pursuit: no rigid body, jumping is disabled until one is present")
	}

	if c.target == nil && c.resolver != nil && c.cfg.TargetTag != "" {
		if t, ok := c.resolver.FindWithTag(c.cfg.TargetTag); ok {
			c.target = t
		}
	}
	if c.target != nil {
		c.bindTarget()
	} else {
		c.log.WithField("tag", c.cfg.TargetTag).Warn("pursuit: no target found")
	}

	c.nav.SetAcceleration(math32.Max(c.nav.Acceleration(), c.cfg.MinAcceleration))
	c.nav.SetAngularSpeed(math32.Max(c.nav.AngularSpeed(), c.cfg.MinAngularSpeed))
	c.nav.SetAutoBraking(false)
	c.nav.SetAutoRepath(true)

	if !c.nav.IsOnMesh() && c.cfg.RecoverOffMesh {
		c.Recover()
	}

	c.initialized = true
	return nil
}

// SetTarget rebinds the pursued entity.
func (c *Controller) SetTarget(t Target) {
	if c == nil {
		return
	}
	c.target = t
	c.bindTarget()
}

func (c *Controller) bindTarget() {
	c.velocity, c.speed = nil, nil
	if c.target == nil {
		return
	}
	if v, ok := c.target.(VelocitySource); ok {
		c.velocity = v
	}
	if s, ok := c.target.(SpeedSource); ok {
		c.speed = s
	}
}

// Tick runs one step of the following logic.
func (c *Controller) Tick(dt float32) {
	if c == nil || !c.initialized || c.disabled || c.target == nil || c.nav == nil {
		return
	}
	// Jumping is checked first: the navigator is disabled mid-air and would
	// otherwise read as off the mesh.
	if c.state == Jumping {
		return
	}
	if !c.nav.IsOnMesh() {
		if c.cfg.RecoverOffMesh {
			c.Recover()
		}
		return
	}

	c.detectAndMaybeJump()
	if c.state == Jumping {
		return
	}

	if dt > 0 {
		c.timer += dt
	}
	issued := false
	if c.timer >= c.cfg.RepathInterval {
		c.timer = 0
		c.syncSpeed()
		c.predicted = c.predict()

		d := c.lastDest.Sub(c.predicted)
		threshold := c.cfg.MinRepathDisplacement
		if d.Dot(d) > threshold*threshold && !c.nav.PathPending() {
			issued = c.issue(c.predicted)
		}
	}

	// a destination issued above already replaced the broken path
	if !issued && (c.nav.PathStatus() == nav.PathInvalid || c.nav.IsPathStale()) {
		c.predicted = c.predict()
		c.nav.ResetPath()
		c.issue(c.predicted)
	}
}

func (c *Controller) issue(dest mgl32.Vec3) bool {
	if !c.nav.SetDestination(dest) {
		return false
	}
	c.lastDest = dest
	c.emit(Event{Kind: EventRepath, Position: dest})
	return true
}

func (c *Controller) syncSpeed() {
	switch {
	case c.speed != nil:
		c.nav.SetSpeed(math32.Max(1, c.speed.Speed()*c.cfg.SpeedMultiplier))
	case c.velocity != nil:
		c.nav.SetSpeed(math32.Max(c.nav.Speed(), c.velocity.Velocity().Len()*c.cfg.SpeedMultiplier))
	}
}

// predict extrapolates the target linearly over the prediction horizon.
func (c *Controller) predict() mgl32.Vec3 {
	p := c.target.Position()
	switch {
	case c.velocity != nil:
		return p.Add(c.velocity.Velocity().Mul(c.cfg.PredictionHorizon))
	case c.speed != nil:
		return p.Add(c.target.Forward().Mul(c.speed.Speed() * c.cfg.PredictionHorizon))
	}
	return p
}

func (c *Controller) detectAndMaybeJump() {
	if c.body == nil || c.probe == nil || c.state == Jumping {
		return
	}
	origin := c.body.Position().Add(mgl32.Vec3{0, c.cfg.ProbeHeight, 0})
	hit, ok := c.probe.Raycast(origin, c.body.Forward(), c.cfg.ObstacleDetectDistance)
	if !ok || hit.Trigger || hit.Collider == c.target.ID() {
		return
	}
	if hit.Bounds.Height() <= c.cfg.MaxJumpableHeight {
		c.beginJump()
	}
}

// Recover moves the agent back onto the navigation mesh, trying the small
// radius first and the fallback radius second.
func (c *Controller) Recover() bool {
	if c == nil || c.nav == nil {
		return false
	}
	pos := c.nav.Position()
	for _, radius := range [2]float32{c.cfg.RecoverRadius, c.cfg.RecoverRadiusFallback} {
		if p, ok := c.nav.SamplePosition(pos, radius); ok {
			if !c.nav.Warp(p) {
				c.log.WithField("position", p).Debug("pursuit: warp rejected, widening search")
				continue
			}
			c.log.WithField("position", p).Debug("pursuit: recovered onto navmesh")
			c.emit(Event{Kind: EventRecovered, Position: p})
			return true
		}
	}
	return false
}

// Grounded probes straight down from the body for a supporting surface.
func (c *Controller) Grounded() bool {
	if c == nil || c.body == nil || c.probe == nil {
		return false
	}
	length := c.body.Height()*0.5 + c.cfg.GroundMargin
	_, ok := c.probe.Raycast(c.body.Position(), mgl32.Vec3{0, -1, 0}, length)
	return ok
}

// Disable stops the controller for good. A jump in progress is abandoned and
// navigation control is handed back to the navigator.
func (c *Controller) Disable() {
	if c == nil || c.disabled {
		return
	}
	if c.state == Jumping {
		c.jump = jumpMachine{}
		c.state = Following
		if c.nav != nil {
			c.nav.SetEnabled(true)
		}
	}
	c.disabled = true
}

func (c *Controller) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

// State returns the current chase state.
func (c *Controller) State() State { return c.state }

// Disabled reports whether Disable has been called.
func (c *Controller) Disabled() bool { return c.disabled }

// Config returns the tuning the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// Target returns the entity being chased, or nil.
func (c *Controller) Target() Target { return c.target }

// Predicted returns the most recent predicted target position.
func (c *Controller) Predicted() mgl32.Vec3 { return c.predicted }

// LastDestination returns the last destination accepted by the navigator.
func (c *Controller) LastDestination() mgl32.Vec3 { return c.lastDest }

// LastJump returns the outcome of the most recent jump.
func (c *Controller) LastJump() JumpResult { return c.lastJump }

// HasDestination reports whether any destination has been issued yet.
func (c *Controller) HasDestination() bool {
	return c.lastDest != unsetDestination
}
