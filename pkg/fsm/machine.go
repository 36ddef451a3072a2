// Package fsm implements the timelapse post-processing workflow as a
// durable finite state machine. It orchestrates the fetch, G-code
// processing, snapshot persistence, and completion of a run using the
// superfly/fsm library, so an interrupted run resumes where it stopped.
package fsm

import (
	"context"

	"github.com/printpath/printpath/pkg/errors"
	"github.com/superfly/fsm"
)

// Register registers the timelapse processing FSM
func (m *Machine) Register(ctx context.Context, manager *fsm.Manager) (fsm.Start[ProcessRequest, ProcessResponse], fsm.Resume, error) {
	start, resume, err := fsm.Register[ProcessRequest, ProcessResponse](manager, "timelapse-process").
		Start(StateCheckDB, m.handleCheckDB).
		To(StateFetch, m.handleFetch).
		To(StateProcess, m.handleProcess).
		To(StatePersist, m.handlePersist).
		To(StateComplete, m.handleComplete).
		End(StateFailed).
		Build(ctx)

	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to register FSM")
	}

	return start, resume, nil
}
