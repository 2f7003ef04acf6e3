package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolver(vars map[string]string, homes map[string]string) *config.EnvResolver {
	return &config.EnvResolver{
		Getenv: func(key string) string { return vars[key] },
		LookupHome: func(name string) (string, error) {
			if h, ok := homes[name]; ok {
				return h, nil
			}
			return "", errors.New("unknown user")
		},
	}
}

func TestEnvResolver_Resolve_PlainUser(t *testing.T) {
	t.Parallel()

	r := resolver(map[string]string{
		"USER":           "alice",
		"HOME":           "/home/alice",
		"TMPDIR":         "/var/tmp",
		"XDG_STATE_HOME": "/home/alice/.state",
	}, nil)

	env, err := r.Resolve(&config.Manifest{Dir: "/srv/dotfiles"})

	require.NoError(t, err)
	assert.Equal(t, config.Environment{
		User:      "alice",
		Home:      "/home/alice",
		SourceDir: "/srv/dotfiles",
		TempDir:   "/var/tmp/dotsetup-alice",
		StateDir:  "/home/alice/.state/dotsetup",
	}, env)
	assert.Equal(t, "/home/alice/.state/dotsetup/history.db", env.HistoryPath())
	assert.Equal(t, "/home/alice/.state/dotsetup/install.log", env.LogPath())
}

func TestEnvResolver_Resolve_Sudo(t *testing.T) {
	t.Parallel()

	r := resolver(map[string]string{
		"SUDO_USER":      "bob",
		"USER":           "root",
		"HOME":           "/root",
		"XDG_STATE_HOME": "/root/.local/state",
	}, map[string]string{"bob": "/home/bob"})

	env, err := r.Resolve(&config.Manifest{Dir: "/srv/dotfiles"})

	require.NoError(t, err)
	assert.Equal(t, "bob", env.User)
	assert.Equal(t, "/home/bob", env.Home)
	assert.Equal(t, "/tmp/dotsetup-bob", env.TempDir)
	assert.Equal(t, "/home/bob/.local/state/dotsetup", env.StateDir)
}

func TestEnvResolver_Resolve_ManifestOverrides(t *testing.T) {
	t.Parallel()

	r := resolver(map[string]string{"USER": "alice", "HOME": "/home/alice"}, nil)

	env, err := r.Resolve(&config.Manifest{
		Dir:       "/srv/repo",
		SourceDir: "files",
		TempDir:   "{home}/.cache/dotsetup",
	})

	require.NoError(t, err)
	assert.Equal(t, "/srv/repo/files", env.SourceDir)
	assert.Equal(t, "/home/alice/.cache/dotsetup", env.TempDir)
	assert.Equal(t, filepath.Join(xdg.StateHome, "dotsetup"), env.StateDir)
}

func TestEnvResolver_Resolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vars  map[string]string
		homes map[string]string
	}{
		{"no user", map[string]string{"HOME": "/home/x"}, nil},
		{"sudo user without home", map[string]string{"SUDO_USER": "ghost"}, nil},
		{"no home", map[string]string{"USER": "alice"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := resolver(tt.vars, tt.homes).Resolve(&config.Manifest{})
			assert.True(t, config.IsUserError(err, config.ErrCodeEnvUnsupported))
		})
	}
}

func TestEnvResolver_Resolve_HomeFromLookup(t *testing.T) {
	t.Parallel()

	r := resolver(map[string]string{"LOGNAME": "carol"}, map[string]string{"carol": "/home/carol"})

	env, err := r.Resolve(&config.Manifest{})

	require.NoError(t, err)
	assert.Equal(t, "carol", env.User)
	assert.Equal(t, "/home/carol", env.Home)
	assert.Equal(t, ".", env.SourceDir)
}
