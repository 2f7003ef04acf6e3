package execution

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Guard converts process signals into cancellation of a pipeline run, so
// an interrupt ends the run as Interrupted and rollback still happens.
type Guard struct {
	signals []os.Signal
}

// NewGuard creates a Guard for the given signals.
// Without arguments it watches SIGINT and SIGTERM.
func NewGuard(signals ...os.Signal) *Guard {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return &Guard{signals: signals}
}

// Run executes the pipeline under the guard. Signal delivery stays
// captured until Run returns, so further signals cannot cut the rollback
// short.
func (g *Guard) Run(ctx context.Context, p *Pipeline, steps []Step) RunState {
	sigCtx, stop := signal.NotifyContext(ctx, g.signals...)
	defer stop()

	return p.Run(sigCtx, steps)
}
