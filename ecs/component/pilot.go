package component

// Pilot drives a RunnerInput from a tengo script.
type Pilot struct {
	Script string
}

var PilotComponent = NewComponent[Pilot]()
