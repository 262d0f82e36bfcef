package pursuit

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/runner/nav"
	"github.com/milk9111/runner/physics"
)

type fakeNav struct {
	pos          mgl32.Vec3
	vel          mgl32.Vec3
	speed        float32
	accel        float32
	angular      float32
	autoBraking  bool
	autoRepath   bool
	enabled      bool
	onMesh       bool
	pending      bool
	status       nav.PathStatus
	stale        bool
	destinations []mgl32.Vec3
	resets       int
	warps        []mgl32.Vec3
	rejectWarps  int
	sampleRadii  []float32
	sample       func(p mgl32.Vec3, radius float32) (mgl32.Vec3, bool)
}

func newFakeNav() *fakeNav {
	return &fakeNav{speed: 3.5, accel: 8, angular: 120, autoBraking: true, enabled: true, onMesh: true}
}

func (n *fakeNav) Position() mgl32.Vec3 { return n.pos }
func (n *fakeNav) Velocity() mgl32.Vec3 { return n.vel }

func (n *fakeNav) SetDestination(p mgl32.Vec3) bool {
	if !n.enabled {
		return false
	}
	n.destinations = append(n.destinations, p)
	return true
}

func (n *fakeNav) ResetPath() {
	n.resets++
	n.pending = false
	n.stale = false
	n.status = nav.PathComplete
}

func (n *fakeNav) Warp(p mgl32.Vec3) bool {
	n.warps = append(n.warps, p)
	if n.rejectWarps > 0 {
		n.rejectWarps--
		return false
	}
	n.pos = p
	n.onMesh = true
	return true
}

func (n *fakeNav) SamplePosition(p mgl32.Vec3, radius float32) (mgl32.Vec3, bool) {
	n.sampleRadii = append(n.sampleRadii, radius)
	if n.sample == nil {
		return mgl32.Vec3{}, false
	}
	return n.sample(p, radius)
}

func (n *fakeNav) PathPending() bool          { return n.pending }
func (n *fakeNav) PathStatus() nav.PathStatus { return n.status }
func (n *fakeNav) IsPathStale() bool          { return n.stale }
func (n *fakeNav) IsOnMesh() bool             { return n.enabled && n.onMesh }
func (n *fakeNav) Speed() float32             { return n.speed }
func (n *fakeNav) SetSpeed(s float32)         { n.speed = s }
func (n *fakeNav) Acceleration() float32      { return n.accel }
func (n *fakeNav) SetAcceleration(a float32)  { n.accel = a }
func (n *fakeNav) AngularSpeed() float32      { return n.angular }
func (n *fakeNav) SetAngularSpeed(a float32)  { n.angular = a }
func (n *fakeNav) SetAutoBraking(b bool)      { n.autoBraking = b }
func (n *fakeNav) SetAutoRepath(b bool)       { n.autoRepath = b }
func (n *fakeNav) Enabled() bool              { return n.enabled }
func (n *fakeNav) SetEnabled(b bool)          { n.enabled = b }

type fakeBody struct {
	pos     mgl32.Vec3
	fwd     mgl32.Vec3
	vel     mgl32.Vec3
	height  float32
	changes []mgl32.Vec3
}

func newFakeBody() *fakeBody {
	return &fakeBody{pos: mgl32.Vec3{0, 1, 0}, fwd: mgl32.Vec3{0, 0, 1}, height: 2}
}

func (b *fakeBody) Position() mgl32.Vec3     { return b.pos }
func (b *fakeBody) Forward() mgl32.Vec3      { return b.fwd }
func (b *fakeBody) Velocity() mgl32.Vec3     { return b.vel }
func (b *fakeBody) SetVelocity(v mgl32.Vec3) { b.vel = v }
func (b *fakeBody) Height() float32          { return b.height }

func (b *fakeBody) AddVelocityChange(dv mgl32.Vec3) {
	b.changes = append(b.changes, dv)
	b.vel = b.vel.Add(dv)
}

// fakeProber answers forward probes with ahead and downward probes with
// ground, counting both.
type fakeProber struct {
	ahead        func() (physics.Hit, bool)
	ground       func(poll int) bool
	forwardCalls int
	groundCalls  int
	lastGround   float32
}

func (p *fakeProber) Raycast(origin, dir mgl32.Vec3, maxDist float32) (physics.Hit, bool) {
	if dir.Y() < 0 {
		p.groundCalls++
		p.lastGround = maxDist
		if p.ground != nil && p.ground(p.groundCalls) {
			return physics.Hit{Distance: maxDist * 0.5}, true
		}
		return physics.Hit{}, false
	}
	p.forwardCalls++
	if p.ahead == nil {
		return physics.Hit{}, false
	}
	return p.ahead()
}

func obstacleAhead(id physics.ColliderID, height, distance float32, trigger bool) func() (physics.Hit, bool) {
	return func() (physics.Hit, bool) {
		return physics.Hit{
			Collider: id,
			Distance: distance,
			Bounds:   cube.Box(-0.5, 0, 0, 0.5, height, 1),
			Trigger:  trigger,
		}, true
	}
}

type plainTarget struct {
	pos mgl32.Vec3
	fwd mgl32.Vec3
	id  physics.ColliderID
}

func (t *plainTarget) Position() mgl32.Vec3   { return t.pos }
func (t *plainTarget) Forward() mgl32.Vec3    { return t.fwd }
func (t *plainTarget) ID() physics.ColliderID { return t.id }

type velocityTarget struct {
	plainTarget
	vel mgl32.Vec3
}

func (t *velocityTarget) Velocity() mgl32.Vec3 { return t.vel }

type speedTarget struct {
	plainTarget
	speed float32
}

func (t *speedTarget) Speed() float32 { return t.speed }

type fullTarget struct {
	plainTarget
	vel   mgl32.Vec3
	speed float32
}

func (t *fullTarget) Velocity() mgl32.Vec3 { return t.vel }
func (t *fullTarget) Speed() float32       { return t.speed }
