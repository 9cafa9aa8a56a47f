package reconcile

import (
	"fmt"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/params"
)

// Action is the corrective step for one target.
type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionRemove
	ActionModify
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionModify:
		return "modify"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Decide maps (desired state, matching client found) to the corrective
// action. Pure; the I/O around it lives in Run. The error arm is defensive:
// params validation rejects any other state value before a run starts.
func Decide(state params.State, found bool) (Action, error) {
	switch state {
	case params.StateAbsent:
		if found {
			return ActionRemove, nil
		}
		return ActionNone, nil
	case params.StatePresent:
		if found {
			return ActionModify, nil
		}
		return ActionAdd, nil
	}
	return ActionNone, fmt.Errorf("unhandled state %q", state)
}
