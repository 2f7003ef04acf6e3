package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/mattn/go-isatty"
)

// ErrPromptAborted is returned when the operator aborts a prompt.
var ErrPromptAborted = errors.New("prompt aborted")

// NewPrompter picks how questions are asked. assumeYes answers everything
// with yes; a terminal on both ends gets the interactive prompt; anything
// else reads answers line by line.
func NewPrompter(assumeYes bool, in *os.File, out *os.File) ports.Prompter {
	if assumeYes {
		return ports.StaticPrompter{Answer: true}
	}
	if isTerminal(in) && isTerminal(out) {
		return NewConfirmPrompter(in, out)
	}
	return NewLinePrompter(in, out)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfirmPrompter asks with an interactive bubbletea prompt.
type ConfirmPrompter struct {
	in        io.Reader
	out       io.Writer
	styles    Styles
	interrupt func()
}

// NewConfirmPrompter creates an interactive prompter.
func NewConfirmPrompter(in io.Reader, out io.Writer) *ConfirmPrompter {
	return &ConfirmPrompter{
		in:        in,
		out:       out,
		styles:    NewStyles(out),
		interrupt: raiseInterrupt,
	}
}

// raiseInterrupt delivers SIGINT to the process. The terminal is in raw
// mode while the prompt runs, so ctrl+c arrives as a key instead.
func raiseInterrupt() {
	if proc, err := os.FindProcess(os.Getpid()); err == nil {
		_ = proc.Signal(os.Interrupt)
	}
}

// Confirm runs the prompt until the operator answers or ctx is done.
func (p *ConfirmPrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	program := tea.NewProgram(
		NewConfirm(question, defaultYes, p.styles),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, err
	}

	model, ok := final.(Confirm)
	if !ok || !model.Done() {
		return false, ErrPromptAborted
	}
	if model.Interrupted() {
		return false, p.abort(ctx)
	}
	return model.Answer(), nil
}

// abort forwards ctrl+c as an interrupt and waits briefly for ctx to
// observe it.
func (p *ConfirmPrompter) abort(ctx context.Context) error {
	if p.interrupt != nil {
		p.interrupt()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
		return ErrPromptAborted
	}
}

// LinePrompter asks on out and reads one answer per line from in.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter creates a line-based prompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

// Confirm asks until it reads y, yes, n, no or an empty line. An empty
// line or end of input selects the default.
func (p *LinePrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		_, _ = fmt.Fprintf(p.out, "%s %s ", question, hint)

		ch := make(chan lineResult, 1)
		go func() {
			line, err := p.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()

		var res lineResult
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(p.out)
			return false, ctx.Err()
		case res = <-ch:
		}

		answer := strings.ToLower(strings.TrimSpace(res.line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			if res.err != nil && !errors.Is(res.err, io.EOF) {
				return false, res.err
			}
			return defaultYes, nil
		}
		if res.err != nil {
			return defaultYes, nil
		}
		_, _ = fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

var (
	_ ports.Prompter = (*ConfirmPrompter)(nil)
	_ ports.Prompter = (*LinePrompter)(nil)
)
