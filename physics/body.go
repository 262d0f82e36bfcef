package physics

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Body is an upright box driven either by the physics step (dynamic) or by
// an external controller (kinematic). Its position is the box centre.
type Body struct {
	world    *World
	collider *Collider

	center    mgl32.Vec3
	halfWidth float32
	height    float32
	velocity  mgl32.Vec3
	forward   mgl32.Vec3

	kinematic bool
	onGround  bool
	contacts  []ColliderID
}

// NewBody creates a dynamic body and its collider.
func (w *World) NewBody(center mgl32.Vec3, width, height float32, tag string) *Body {
	if w == nil {
		return nil
	}
	b := &Body{
		world:     w,
		center:    center,
		halfWidth: width * 0.5,
		height:    height,
		forward:   mgl32.Vec3{0, 0, 1},
	}
	b.collider = w.AddCollider(b.box(), false, tag)
	b.collider.body = b
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody unregisters a body and its collider.
func (w *World) RemoveBody(b *Body) {
	if w == nil || b == nil || b.collider == nil {
		return
	}
	w.RemoveCollider(b.collider.ID)
}

func (w *World) dropBody(b *Body) {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (b *Body) ColliderID() ColliderID {
	if b == nil || b.collider == nil {
		return 0
	}
	return b.collider.ID
}

func (b *Body) Position() mgl32.Vec3 { return b.center }
func (b *Body) Velocity() mgl32.Vec3 { return b.velocity }
func (b *Body) Forward() mgl32.Vec3  { return b.forward }
func (b *Body) Height() float32      { return b.height }
func (b *Body) Width() float32       { return b.halfWidth * 2 }
func (b *Body) Kinematic() bool      { return b.kinematic }
func (b *Body) OnGround() bool       { return b.onGround }
func (b *Body) Box() cube.BBox       { return b.box() }

// Base is the bottom centre of the body.
func (b *Body) Base() mgl32.Vec3 {
	return b.center.Sub(mgl32.Vec3{0, b.height * 0.5, 0})
}

// Contacts lists the colliders the body was pushed out of during the last
// step.
func (b *Body) Contacts() []ColliderID {
	return b.contacts
}

// SetPosition teleports the body without interpolation.
func (b *Body) SetPosition(center mgl32.Vec3) {
	b.center = center
	b.syncCollider()
}

func (b *Body) SetVelocity(v mgl32.Vec3) {
	b.velocity = v
}

// AddVelocityChange applies an instantaneous change in velocity, ignoring
// mass.
func (b *Body) AddVelocityChange(dv mgl32.Vec3) {
	b.velocity = b.velocity.Add(dv)
}

// SetForward sets the facing direction, flattened onto the XZ plane.
func (b *Body) SetForward(f mgl32.Vec3) {
	f[1] = 0
	if f.Len() == 0 {
		return
	}
	b.forward = f.Normalize()
}

// SetKinematic hands the body to (true) or takes it back from (false) an
// external driver.
func (b *Body) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
	if kinematic {
		b.onGround = false
		b.contacts = b.contacts[:0]
	}
}

func (b *Body) box() cube.BBox {
	h := b.height * 0.5
	return cube.Box(
		b.center.X()-b.halfWidth, b.center.Y()-h, b.center.Z()-b.halfWidth,
		b.center.X()+b.halfWidth, b.center.Y()+h, b.center.Z()+b.halfWidth,
	)
}

func (b *Body) extent(axis int) float32 {
	if axis == 1 {
		return b.height * 0.5
	}
	return b.halfWidth
}

func (b *Body) syncCollider() {
	if b.collider != nil {
		b.collider.Box = b.box()
	}
}

// integrate applies gravity and moves the body one axis at a time, Y first,
// pushing it out of any solid static collider it ends up overlapping.
func (b *Body) integrate(dt float32) {
	b.velocity = b.velocity.Add(b.world.gravity.Mul(dt))
	b.onGround = false
	b.contacts = b.contacts[:0]

	delta := b.velocity.Mul(dt)
	for _, axis := range [3]int{1, 0, 2} {
		if delta[axis] == 0 {
			continue
		}
		b.center[axis] += delta[axis]
		box := b.box()
		for el := b.world.colliders.Front(); el != nil; el = el.Next() {
			c := el.Value
			if c.Trigger || c.body != nil || !box.IntersectsWith(c.Box) {
				continue
			}
			if delta[axis] > 0 {
				b.center[axis] = c.Box.Min()[axis] - b.extent(axis)
			} else {
				b.center[axis] = c.Box.Max()[axis] + b.extent(axis)
				if axis == 1 {
					b.onGround = true
				}
			}
			b.velocity[axis] = 0
			b.contacts = append(b.contacts, c.ID)
			box = b.box()
		}
	}
	b.syncCollider()
}
