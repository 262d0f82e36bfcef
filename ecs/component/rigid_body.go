package component

import "github.com/milk9111/runner/physics"

// RigidBody links an entity to its body in the physics world.
type RigidBody struct {
	Body *physics.Body
}

var RigidBodyComponent = NewComponent[RigidBody]()
