package system

import (
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/ecs/component"
	"github.com/milk9111/runner/physics"
)

// CoinSystem awards a point to every live runner overlapping a coin and
// removes the coin.
type CoinSystem struct {
	world *physics.World
}

func NewCoinSystem(world *physics.World) *CoinSystem {
	return &CoinSystem{world: world}
}

func (cs *CoinSystem) Update(w *ecs.World) {
	if cs == nil || cs.world == nil || w == nil {
		return
	}

	coins := map[physics.ColliderID]ecs.Entity{}
	ecs.ForEach(w, component.CoinComponent.Kind(), func(e ecs.Entity, c *component.Coin) {
		coins[c.Collider] = e
	})
	if len(coins) == 0 {
		return
	}

	ecs.ForEach2(w, component.RunnerComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, r *component.Runner, rb *component.RigidBody) {
		if rb.Body == nil || !r.Alive {
			return
		}
		for _, c := range cs.world.Overlaps(rb.Body.Box(), rb.Body.ColliderID()) {
			coin, ok := coins[c.ID]
			if !ok {
				continue
			}
			delete(coins, c.ID)
			r.AddPoint()
			cs.world.RemoveCollider(c.ID)
			ecs.DestroyEntity(w, coin)
			w.Events().Push(ecs.Event{Kind: ecs.EventCoin, Entity: e, Position: c.Box.Min().Add(c.Box.Max()).Mul(0.5), Data: r.Points})
		}
	})
}
