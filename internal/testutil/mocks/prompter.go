package mocks

import (
	"context"
	"sync"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// Prompter answers questions from a scripted list and records them.
type Prompter struct {
	mu        sync.Mutex
	answers   []bool
	err       error
	questions []string
}

// NewPrompter creates a Prompter that returns answers in order.
// When the list runs out the question's default is used.
func NewPrompter(answers ...bool) *Prompter {
	return &Prompter{answers: answers}
}

// FailWith makes every Confirm return err.
func (p *Prompter) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Questions returns the questions asked so far.
func (p *Prompter) Questions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.questions))
	copy(out, p.questions)
	return out
}

// Confirm implements ports.Prompter.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, question)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return defaultYes, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

var _ ports.Prompter = (*Prompter)(nil)
