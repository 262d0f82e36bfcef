package component

import (
	"github.com/milk9111/runner/nav"
	"github.com/milk9111/runner/pursuit"
)

// Pursuer couples a chase controller with the nav agent it drives.
type Pursuer struct {
	Controller *pursuit.Controller
	Agent      *nav.Agent
}

var PursuerComponent = NewComponent[Pursuer]()
