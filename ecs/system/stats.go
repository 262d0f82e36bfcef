package system

import (
	"github.com/milk9111/runner/ecs"
	"github.com/milk9111/runner/pursuit"
	"github.com/sirupsen/logrus"
)

// Stats aggregates the events raised during a run.
type Stats struct {
	Jumps      int
	Landings   int
	StuckJumps int
	Recoveries int
	Repaths    int
	Deaths     int
	Coins      int
}

// StatsSystem drains the world event queue. It should run last.
type StatsSystem struct {
	log   logrus.FieldLogger
	stats Stats
}

func NewStatsSystem(log logrus.FieldLogger) *StatsSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StatsSystem{log: log.WithField("system", "stats")}
}

func (ss *StatsSystem) Stats() Stats {
	if ss == nil {
		return Stats{}
	}
	return ss.stats
}

func (ss *StatsSystem) Update(w *ecs.World) {
	if ss == nil || w == nil {
		return
	}
	for _, ev := range w.Events().Drain() {
		switch ev.Kind {
		case ecs.EventJumpStarted:
			ss.stats.Jumps++
		case ecs.EventJumpLanded:
			ss.stats.Landings++
			if res, ok := ev.Data.(pursuit.JumpResult); ok && !res.Grounded {
				ss.stats.StuckJumps++
			}
		case ecs.EventRecovered:
			ss.stats.Recoveries++
		case ecs.EventRepath:
			ss.stats.Repaths++
		case ecs.EventCoin:
			ss.stats.Coins++
		case ecs.EventRunnerDied:
			ss.stats.Deaths++
			ss.log.WithFields(logrus.Fields{
				"entity":   ev.Entity,
				"position": ev.Position,
			}).Info("runner died")
		}
	}
}

// EventBridge forwards controller events for one pursuer entity into the
// world event queue.
func EventBridge(w *ecs.World, e ecs.Entity) pursuit.Observer {
	return func(ev pursuit.Event) {
		var kind ecs.EventKind
		var data any
		switch ev.Kind {
		case pursuit.EventJumpStarted:
			kind = ecs.EventJumpStarted
		case pursuit.EventJumpLanded:
			kind = ecs.EventJumpLanded
			data = ev.Jump
		case pursuit.EventRecovered:
			kind = ecs.EventRecovered
		case pursuit.EventRepath:
			kind = ecs.EventRepath
		default:
			return
		}
		w.Events().Push(ecs.Event{Kind: kind, Entity: e, Position: ev.Position, Data: data})
	}
}
