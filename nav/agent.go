package nav

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/physics"
)

const (
	defaultSpeed        = 3.5
	defaultAcceleration = 8
	defaultAngularSpeed = 120
	cornerReachedDist   = 0.1
	brakingDistance     = 1.0
)

// Agent moves along paths computed on a Mesh. Destination requests are
// resolved on the following Update, so PathPending is observable for one
// step after SetDestination.
//
// While enabled the agent drives its body kinematically. While disabled the
// body is left to the physics world and Position follows it.
type Agent struct {
	mesh *Mesh
	body *physics.Body

	base       mgl32.Vec3
	baseOffset float32
	velocity   mgl32.Vec3
	forward    mgl32.Vec3

	speed        float32
	acceleration float32
	angularSpeed float32
	autoBraking  bool
	autoRepath   bool
	enabled      bool

	destination mgl32.Vec3
	hasDest     bool
	pending     bool
	stale       bool
	status      PathStatus
	path        []mgl32.Vec3
	corner      int
	builtFor    uint64
}

// NewAgent creates an enabled agent on mesh. When body is non-nil the agent
// starts from the body's base and drives it from then on.
func NewAgent(mesh *Mesh, body *physics.Body, start mgl32.Vec3) *Agent {
	a := &Agent{
		mesh:         mesh,
		body:         body,
		base:         start,
		forward:      mgl32.Vec3{0, 0, 1},
		speed:        defaultSpeed,
		acceleration: defaultAcceleration,
		angularSpeed: defaultAngularSpeed,
		autoBraking:  true,
		enabled:      true,
		status:       PathComplete,
	}
	if body != nil {
		a.baseOffset = body.Height() * 0.5
		a.base = body.Base()
		a.forward = body.Forward()
		body.SetKinematic(true)
	}
	return a
}

// Position is the transform position: the body centre when a body is
// attached, otherwise the base.
func (a *Agent) Position() mgl32.Vec3 {
	if a.body != nil {
		return a.body.Position()
	}
	return a.base
}

// Base is the point the agent stands on.
func (a *Agent) Base() mgl32.Vec3 {
	if a.body != nil && !a.enabled {
		return a.body.Base()
	}
	return a.base
}

func (a *Agent) Velocity() mgl32.Vec3 { return a.velocity }
func (a *Agent) Forward() mgl32.Vec3  { return a.forward }

func (a *Agent) Speed() float32                { return a.speed }
func (a *Agent) SetSpeed(speed float32)        { a.speed = math32.Max(speed, 0) }
func (a *Agent) Acceleration() float32         { return a.acceleration }
func (a *Agent) SetAcceleration(accel float32) { a.acceleration = math32.Max(accel, 0) }
func (a *Agent) AngularSpeed() float32         { return a.angularSpeed }
func (a *Agent) SetAngularSpeed(deg float32)   { a.angularSpeed = math32.Max(deg, 0) }
func (a *Agent) SetAutoBraking(enabled bool)   { a.autoBraking = enabled }
func (a *Agent) SetAutoRepath(enabled bool)    { a.autoRepath = enabled }
func (a *Agent) AutoBraking() bool             { return a.autoBraking }
func (a *Agent) AutoRepath() bool              { return a.autoRepath }

func (a *Agent) Enabled() bool           { return a.enabled }
func (a *Agent) PathPending() bool       { return a.pending }
func (a *Agent) PathStatus() PathStatus  { return a.status }
func (a *Agent) IsPathStale() bool       { return a.stale }
func (a *Agent) Destination() mgl32.Vec3 { return a.destination }
func (a *Agent) HasPath() bool           { return a.corner < len(a.path) }

// Path returns the corners still ahead of the agent.
func (a *Agent) Path() []mgl32.Vec3 {
	if a.corner >= len(a.path) {
		return nil
	}
	return a.path[a.corner:]
}

// IsOnMesh reports whether an enabled agent stands on the mesh. Disabled
// agents are never on the mesh.
func (a *Agent) IsOnMesh() bool {
	return a.enabled && a.mesh != nil && a.mesh.OnMesh(a.base)
}

// SetDestination queues a path request. It fails on a disabled agent.
func (a *Agent) SetDestination(p mgl32.Vec3) bool {
	if !a.enabled || a.mesh == nil {
		return false
	}
	a.destination = p
	a.hasDest = true
	a.pending = true
	a.stale = false
	return true
}

// ResetPath drops the current path and any pending request.
func (a *Agent) ResetPath() {
	a.hasDest = false
	a.pending = false
	a.stale = false
	a.path = nil
	a.corner = 0
	a.status = PathComplete
}

// Warp teleports the agent onto the mesh point p, dropping its path.
func (a *Agent) Warp(p mgl32.Vec3) bool {
	if a.mesh == nil || !a.mesh.OnMesh(p) {
		return false
	}
	a.ResetPath()
	a.base = p
	a.velocity = mgl32.Vec3{}
	if a.body != nil {
		a.body.SetPosition(p.Add(mgl32.Vec3{0, a.baseOffset, 0}))
		a.body.SetVelocity(mgl32.Vec3{})
	}
	return true
}

// SamplePosition finds the closest mesh point within radius of p.
func (a *Agent) SamplePosition(p mgl32.Vec3, radius float32) (mgl32.Vec3, bool) {
	if a.mesh == nil {
		return mgl32.Vec3{}, false
	}
	return a.mesh.Sample(p, radius)
}

// SetEnabled hands control to (true) or takes it away from (false) the
// agent. Disabling drops the path; enabling resumes from the body position.
func (a *Agent) SetEnabled(enabled bool) {
	if a.enabled == enabled {
		return
	}
	a.enabled = enabled
	if !enabled {
		a.ResetPath()
		if a.body != nil {
			a.body.SetKinematic(false)
		}
		return
	}
	if a.body != nil {
		a.base = a.body.Base()
		a.forward = a.body.Forward()
		a.body.SetKinematic(true)
	}
	a.velocity = mgl32.Vec3{}
}

// Update resolves pending requests and moves the agent along its path.
func (a *Agent) Update(dt float32) {
	if !a.enabled || a.mesh == nil {
		return
	}

	if a.hasDest && !a.pending && a.builtFor != a.mesh.Version() {
		if a.autoRepath {
			a.pending = true
		} else {
			a.stale = true
		}
	}
	if a.pending {
		a.resolve()
	}

	if dt > 0 {
		a.steer(dt)
	}
	a.syncBody()
}

func (a *Agent) resolve() {
	a.pending = false
	a.stale = false
	a.builtFor = a.mesh.Version()
	path, status, err := a.mesh.FindPath(a.base, a.destination)
	a.status = status
	a.corner = 0
	if err != nil {
		a.path = nil
		return
	}
	a.path = path
}

func (a *Agent) steer(dt float32) {
	desired := mgl32.Vec3{}
	remaining := float32(0)
	for a.corner < len(a.path) {
		to := a.path[a.corner].Sub(a.base)
		to[1] = 0
		if to.Len() > cornerReachedDist {
			desired = to.Normalize()
			break
		}
		a.corner++
	}
	if a.corner < len(a.path) {
		remaining = a.remainingDistance()
	}

	target := desired.Mul(a.speed)
	if a.autoBraking && remaining < brakingDistance {
		target = target.Mul(remaining / brakingDistance)
	}

	// accelerate toward the target velocity
	diff := target.Sub(a.velocity)
	maxDelta := a.acceleration * dt
	if l := diff.Len(); l > maxDelta && l > 0 {
		diff = diff.Mul(maxDelta / l)
	}
	a.velocity = a.velocity.Add(diff)

	step := a.velocity.Mul(dt)
	if a.corner == len(a.path)-1 {
		// never overshoot the final corner
		last := a.path[a.corner].Sub(a.base)
		last[1] = 0
		if step.Len() > last.Len() {
			step = last
		}
	}
	next := a.base.Add(step)
	if h, ok := a.mesh.SurfaceHeight(next); ok {
		next[1] = h
		a.base = next
	} else {
		a.velocity = mgl32.Vec3{}
	}

	if desired.Len() > 0 {
		a.turnTowards(desired, dt)
	}
}

func (a *Agent) remainingDistance() float32 {
	d := float32(0)
	prev := a.base
	for _, c := range a.path[a.corner:] {
		seg := c.Sub(prev)
		seg[1] = 0
		d += seg.Len()
		prev = c
	}
	return d
}

// turnTowards rotates the facing direction around Y by at most
// angularSpeed*dt degrees.
func (a *Agent) turnTowards(dir mgl32.Vec3, dt float32) {
	cur := math32.Atan2(a.forward.X(), a.forward.Z())
	want := math32.Atan2(dir.X(), dir.Z())
	delta := want - cur
	for delta > math32.Pi {
		delta -= 2 * math32.Pi
	}
	for delta < -math32.Pi {
		delta += 2 * math32.Pi
	}
	maxTurn := mgl32.DegToRad(a.angularSpeed) * dt
	if delta > maxTurn {
		delta = maxTurn
	} else if delta < -maxTurn {
		delta = -maxTurn
	}
	yaw := cur + delta
	a.forward = mgl32.Vec3{math32.Sin(yaw), 0, math32.Cos(yaw)}
}

func (a *Agent) syncBody() {
	if a.body == nil {
		return
	}
	a.body.SetPosition(a.base.Add(mgl32.Vec3{0, a.baseOffset, 0}))
	a.body.SetVelocity(a.velocity)
	a.body.SetForward(a.forward)
}
