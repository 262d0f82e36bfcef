package physics

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGravity is applied along -Y.
const DefaultGravity = 9.81

// ColliderID identifies a collider inside a World.
type ColliderID uint64

// Collider is an axis-aligned box registered with a World. Triggers are
// reported by raycasts but never block bodies.
type Collider struct {
	ID      ColliderID
	Box     cube.BBox
	Trigger bool
	Tag     string

	body *Body
}

// Body returns the rigid body owning this collider, if any.
func (c *Collider) Body() *Body {
	return c.body
}

// Hit is the nearest raycast intersection.
type Hit struct {
	Collider ColliderID
	Tag      string
	Distance float32
	Point    mgl32.Vec3
	Bounds   cube.BBox
	Trigger  bool
}

// World owns colliders and rigid bodies. Colliders are kept in insertion
// order so raycasts resolve ties deterministically.
type World struct {
	gravity   mgl32.Vec3
	nextID    ColliderID
	colliders *orderedmap.OrderedMap[ColliderID, *Collider]
	bodies    []*Body
}

// NewWorld creates an empty world with default gravity.
func NewWorld() *World {
	return &World{
		gravity:   mgl32.Vec3{0, -DefaultGravity, 0},
		colliders: orderedmap.NewOrderedMap[ColliderID, *Collider](),
	}
}

func (w *World) Gravity() mgl32.Vec3 {
	return w.gravity
}

func (w *World) SetGravity(g mgl32.Vec3) {
	if w == nil {
		return
	}
	w.gravity = g
}

// AddCollider registers a static box.
func (w *World) AddCollider(box cube.BBox, trigger bool, tag string) *Collider {
	if w == nil {
		return nil
	}
	w.nextID++
	c := &Collider{ID: w.nextID, Box: box, Trigger: trigger, Tag: tag}
	w.colliders.Set(c.ID, c)
	return c
}

// RemoveCollider unregisters a collider. Removing a body's collider removes
// the body as well.
func (w *World) RemoveCollider(id ColliderID) bool {
	if w == nil {
		return false
	}
	c, ok := w.colliders.Get(id)
	if !ok {
		return false
	}
	if c.body != nil {
		w.dropBody(c.body)
	}
	return w.colliders.Delete(id)
}

// Collider looks a collider up by id.
func (w *World) Collider(id ColliderID) (*Collider, bool) {
	if w == nil {
		return nil, false
	}
	return w.colliders.Get(id)
}

// Colliders returns every collider in insertion order.
func (w *World) Colliders() []*Collider {
	if w == nil {
		return nil
	}
	out := make([]*Collider, 0, w.colliders.Len())
	for el := w.colliders.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Raycast returns the nearest collider hit by the segment starting at origin
// and extending maxDist along dir. Colliders that contain the origin are
// skipped, so a ray cast from inside a body never reports that body.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	return w.RaycastIgnoring(origin, dir, maxDist)
}

// RaycastIgnoring is Raycast with an explicit list of colliders to skip.
func (w *World) RaycastIgnoring(origin, dir mgl32.Vec3, maxDist float32, ignore ...ColliderID) (Hit, bool) {
	if w == nil || maxDist <= 0 {
		return Hit{}, false
	}
	length := dir.Len()
	if length == 0 {
		return Hit{}, false
	}
	dir = dir.Mul(1 / length)
	end := origin.Add(dir.Mul(maxDist))

	var best Hit
	found := false
	for el := w.colliders.Front(); el != nil; el = el.Next() {
		c := el.Value
		if ignored(c.ID, ignore) || contains(c.Box, origin) {
			continue
		}
		res, ok := trace.BBoxIntercept(c.Box, origin, end)
		if !ok {
			continue
		}
		point := res.Position()
		dist := point.Sub(origin).Len()
		if dist > maxDist {
			continue
		}
		if !found || dist < best.Distance {
			best = Hit{
				Collider: c.ID,
				Tag:      c.Tag,
				Distance: dist,
				Point:    point,
				Bounds:   c.Box,
				Trigger:  c.Trigger,
			}
			found = true
		}
	}
	return best, found
}

// Overlaps returns the colliders, triggers included, whose boxes strictly
// intersect box.
func (w *World) Overlaps(box cube.BBox, ignore ...ColliderID) []*Collider {
	if w == nil {
		return nil
	}
	var out []*Collider
	for el := w.colliders.Front(); el != nil; el = el.Next() {
		c := el.Value
		if ignored(c.ID, ignore) || !box.IntersectsWith(c.Box) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Step integrates every dynamic body by dt seconds.
func (w *World) Step(dt float32) {
	if w == nil || dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.kinematic {
			continue
		}
		b.integrate(dt)
	}
}

func ignored(id ColliderID, ignore []ColliderID) bool {
	for _, i := range ignore {
		if i == id {
			return true
		}
	}
	return false
}

func contains(box cube.BBox, p mgl32.Vec3) bool {
	lo, hi := box.Min(), box.Max()
	return p.X() > lo.X() && p.X() < hi.X() &&
		p.Y() > lo.Y() && p.Y() < hi.Y() &&
		p.Z() > lo.Z() && p.Z() < hi.Z()
}
