package config_test

import (
	"testing"

	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/stretchr/testify/assert"
)

func TestCheckNotRoot(t *testing.T) {
	t.Parallel()

	assert.NoError(t, config.CheckNotRoot(1000, false))
	assert.NoError(t, config.CheckNotRoot(0, true))

	err := config.CheckNotRoot(0, false)
	assert.True(t, config.IsUserError(err, config.ErrCodeEnvUnsupported))
	assert.Contains(t, config.GetUserError(err).Suggestion, "--allow-root")
}

func TestCheckHost(t *testing.T) {
	t.Parallel()

	debian := func(path string) bool { return path == config.DebianVersionFile }
	fedora := func(string) bool { return false }

	assert.NoError(t, config.CheckHost(debian))

	err := config.CheckHost(fedora)
	assert.True(t, config.IsUserError(err, config.ErrCodeEnvUnsupported))
	assert.Equal(t, config.DebianVersionFile, config.GetUserError(err).Context)
}
