package ports

import "context"

// Prompter asks the operator a yes/no question.
type Prompter interface {
	// Confirm blocks until the operator answers or ctx is done.
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
}

// StaticPrompter answers every question with the same value.
// It backs --yes and non-interactive runs.
type StaticPrompter struct {
	Answer bool
}

// Confirm returns the static answer.
func (p StaticPrompter) Confirm(ctx context.Context, _ string, _ bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.Answer, nil
}

var _ Prompter = StaticPrompter{}
