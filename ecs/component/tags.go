package component

import "github.com/milk9111/runner/physics"

// Tag is the lookup name used by tag-based target resolution.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()

// Obstacle marks a static box the runner dies on contact with.
type Obstacle struct {
	Collider physics.ColliderID
	Height   float32
	Carved   bool
}

var ObstacleComponent = NewComponent[Obstacle]()

type GroundTile struct {
	Collider physics.ColliderID
	Index    int
}

var GroundTileComponent = NewComponent[GroundTile]()

// Coin is a trigger volume that scores a point for the runner touching it.
type Coin struct {
	Collider physics.ColliderID
}

var CoinComponent = NewComponent[Coin]()
