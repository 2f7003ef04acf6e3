package execution

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State is the lifecycle state of a pipeline run.
type State string

// Run states. Completed, Failed and Interrupted are terminal.
const (
	StateNotStarted  State = "not-started"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
	StateInterrupted State = "interrupted"
)

// IsTerminal returns true if no further transition is possible.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateInterrupted:
		return true
	case StateNotStarted, StateRunning:
		return false
	}
	return false
}

// Events driving the run state machine.
const (
	eventStart     = "START"
	eventSucceed   = "SUCCEED"
	eventFail      = "FAIL"
	eventInterrupt = "INTERRUPT"
)

// machineContext is the statekit context type. The run keeps its data in
// RunState; the machine only guards transitions.
type machineContext struct{}

// runMachine tracks one run's lifecycle.
type runMachine struct {
	interp *statekit.Interpreter[machineContext]
}

// newRunMachine builds the run state machine:
//
//	not-started -START-> running -SUCCEED-> completed
//	                             -FAIL-> failed
//	                             -INTERRUPT-> interrupted
func newRunMachine() (*runMachine, error) {
	machine, err := statekit.NewMachine[machineContext]("dotsetup-run").
		WithInitial("not-started").
		WithContext(machineContext{}).
		State("not-started").
		On(eventStart).Target("running").Done().
		State("running").
		On(eventSucceed).Target("completed").
		On(eventFail).Target("failed").
		On(eventInterrupt).Target("interrupted").Done().
		State("completed").Done().
		State("failed").Done().
		State("interrupted").Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build run state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &runMachine{interp: interp}, nil
}

func (m *runMachine) start() {
	m.interp.Send(statekit.Event{Type: eventStart})
}

func (m *runMachine) succeed() {
	m.interp.Send(statekit.Event{Type: eventSucceed})
}

func (m *runMachine) fail() {
	m.interp.Send(statekit.Event{Type: eventFail})
}

func (m *runMachine) interrupt() {
	m.interp.Send(statekit.Event{Type: eventInterrupt})
}

func (m *runMachine) state() State {
	return State(m.interp.State().Value)
}

func (m *runMachine) stop() {
	m.interp.Stop()
}
