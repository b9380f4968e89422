package node

import (
	"github.com/looplab/fsm"
)

// Lifecycle states and events of the embedded node. The machine enforces
// the created -> initialized -> running -> stopped order and rejects a
// second Init or a Run without Init.
const (
	stateCreated     = "created"
	stateInitialized = "initialized"
	stateRunning     = "running"
	stateStopped     = "stopped"

	eventInit = "init"
	eventRun  = "run"
	eventStop = "stop"
)

func newLifecycleFSM() *fsm.FSM {
	return fsm.NewFSM(
		stateCreated,
		fsm.Events{
			{
				Name: eventInit,
				Src:  []string{stateCreated},
				Dst:  stateInitialized,
			},
			{
				Name: eventRun,
				Src:  []string{stateInitialized},
				Dst:  stateRunning,
			},
			{
				Name: eventStop,
				Src:  []string{stateInitialized, stateRunning},
				Dst:  stateStopped,
			},
		},
		fsm.Callbacks{},
	)
}
