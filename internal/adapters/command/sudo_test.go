package command

import (
	"context"
	"testing"

	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSudoRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		root   bool
		env    []string
		expect string
	}{
		{"prefixes sudo", false, nil, "sudo apt-get install -y kitty"},
		{"passes env to sudo", false, []string{"DEBIAN_FRONTEND=noninteractive"}, "sudo DEBIAN_FRONTEND=noninteractive apt-get install -y kitty"},
		{"runs directly as root", true, nil, "apt-get install -y kitty"},
		{"uses env as root", true, []string{"DEBIAN_FRONTEND=noninteractive"}, "env DEBIAN_FRONTEND=noninteractive apt-get install -y kitty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := mocks.NewCommandRunner()
			next.SetFallback(ports.CommandResult{})
			runner := NewSudoRunner(next).WithEnv(tt.env...)
			runner.isRoot = func() bool { return tt.root }

			result, err := runner.Run(context.Background(), "apt-get", "install", "-y", "kitty")

			require.NoError(t, err)
			assert.True(t, result.Success())
			assert.Equal(t, []string{tt.expect}, next.CallStrings())
		})
	}
}
