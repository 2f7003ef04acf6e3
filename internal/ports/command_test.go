package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandResult_Success(t *testing.T) {
	t.Parallel()

	assert.True(t, CommandResult{ExitCode: 0}.Success())
	assert.False(t, CommandResult{ExitCode: 100, Stderr: "E: Unable to locate package"}.Success())
}

func TestCommandResult_Output(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result CommandResult
		want   string
	}{
		{"prefers stderr", CommandResult{Stdout: "out", Stderr: " err \n"}, "err"},
		{"falls back to stdout", CommandResult{Stdout: "out\n"}, "out"},
		{"empty", CommandResult{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.Output())
		})
	}
}

func TestCommandCall_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "apt-get install -y zsh", CommandCall{Command: "apt-get", Args: []string{"install", "-y", "zsh"}}.String())
	assert.Equal(t, "true", CommandCall{Command: "true"}.String())
}

func TestStaticPrompter(t *testing.T) {
	t.Parallel()

	ok, err := StaticPrompter{Answer: true}.Confirm(context.Background(), "Install Dash to Panel?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = StaticPrompter{Answer: true}.Confirm(ctx, "Install Dash to Panel?", true)
	assert.ErrorIs(t, err, context.Canceled)
}
