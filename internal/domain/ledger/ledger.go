package ledger

import "iter"

// Recorder is the append-only view of a Ledger handed to steps.
type Recorder interface {
	Record(a Action)
}

// Entries is the read-only view of a Ledger handed to the compensator.
type Entries interface {
	Len() int
	Reverse() iter.Seq[Action]
}

// Ledger is an append-only, ordered record of Actions.
// It has a single writer and is not safe for concurrent use.
type Ledger struct {
	actions []Action
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds an action to the end of the ledger. Nil actions are ignored.
func (l *Ledger) Append(a Action) {
	if a == nil {
		return
	}
	l.actions = append(l.actions, a)
}

// Record implements Recorder.
func (l *Ledger) Record(a Action) {
	l.Append(a)
}

// Len returns the number of recorded actions.
func (l *Ledger) Len() int {
	return len(l.actions)
}

// Entries returns a copy of the actions in append order.
func (l *Ledger) Entries() []Action {
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// Reverse yields the actions from most recent to oldest.
// Each call returns a fresh sequence.
func (l *Ledger) Reverse() iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for i := len(l.actions) - 1; i >= 0; i-- {
			if !yield(l.actions[i]) {
				return
			}
		}
	}
}

var (
	_ Recorder = (*Ledger)(nil)
	_ Entries  = (*Ledger)(nil)
)
