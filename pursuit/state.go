package pursuit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the movement state of a pursuer.
type State int

const (
	Following State = iota
	Jumping
)

func (s State) String() string {
	switch s {
	case Following:
		return "following"
	case Jumping:
		return "jumping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind identifies controller notifications.
type EventKind string

const (
	EventJumpStarted EventKind = "jump_started"
	EventJumpLanded  EventKind = "jump_landed"
	EventRecovered   EventKind = "recovered"
	EventRepath      EventKind = "repath"
)

// Event is delivered to an Observer.
type Event struct {
	Kind     EventKind
	Position mgl32.Vec3
	Jump     JumpResult
}

// Observer receives controller notifications synchronously.
type Observer func(Event)

// JumpResult describes how the last jump ended. A jump that never grounds is
// resolved exactly like a landing; Grounded is false in that case.
type JumpResult struct {
	Polls    int
	Grounded bool
}
