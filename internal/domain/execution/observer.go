package execution

// Observer receives progress notifications from a pipeline run.
// Implementations render progress or write logs; they must not block.
type Observer interface {
	StepStarted(index, total int, name string)
	StepFinished(result StepResult)
	RollbackStarted(entries int)
	ActionReverted(result RollbackResult)
	RunFinished(state RunState)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// StepStarted does nothing.
func (NopObserver) StepStarted(int, int, string) {}

// StepFinished does nothing.
func (NopObserver) StepFinished(StepResult) {}

// RollbackStarted does nothing.
func (NopObserver) RollbackStarted(int) {}

// ActionReverted does nothing.
func (NopObserver) ActionReverted(RollbackResult) {}

// RunFinished does nothing.
func (NopObserver) RunFinished(RunState) {}

var _ Observer = NopObserver{}

// Observers combines several observers; each notification goes to all of
// them in order. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	if len(list) == 0 {
		return NopObserver{}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) StepStarted(index, total int, name string) {
	for _, o := range m {
		o.StepStarted(index, total, name)
	}
}

func (m multiObserver) StepFinished(result StepResult) {
	for _, o := range m {
		o.StepFinished(result)
	}
}

func (m multiObserver) RollbackStarted(entries int) {
	for _, o := range m {
		o.RollbackStarted(entries)
	}
}

func (m multiObserver) ActionReverted(result RollbackResult) {
	for _, o := range m {
		o.ActionReverted(result)
	}
}

func (m multiObserver) RunFinished(state RunState) {
	for _, o := range m {
		o.RunFinished(state)
	}
}
