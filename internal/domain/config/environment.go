package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName names the state directory and the default temp directory.
const AppName = "dotsetup"

// Environment holds the values manifest paths are expanded against.
type Environment struct {
	User      string
	Home      string
	SourceDir string
	TempDir   string
	StateDir  string
}

// Expand replaces a leading ~ and the {home}, {user}, {source} and {temp}
// placeholders in s.
func (e Environment) Expand(s string) string {
	if s == "~" {
		s = e.Home
	} else if rest, ok := strings.CutPrefix(s, "~/"); ok {
		s = filepath.Join(e.Home, rest)
	}
	return strings.NewReplacer(
		"{home}", e.Home,
		"{user}", e.User,
		"{source}", e.SourceDir,
		"{temp}", e.TempDir,
	).Replace(s)
}

// resolve expands p and anchors a relative result at base.
func (e Environment) resolve(p, base string) string {
	if p == "" {
		return ""
	}
	p = e.Expand(p)
	if !filepath.IsAbs(p) && base != "" {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// HistoryPath returns the run history database location.
func (e Environment) HistoryPath() string {
	return filepath.Join(e.StateDir, "history.db")
}

// LogPath returns the default install log location.
func (e Environment) LogPath() string {
	return filepath.Join(e.StateDir, "install.log")
}

// EnvResolver derives an Environment from process state.
type EnvResolver struct {
	Getenv     func(key string) string
	LookupHome func(username string) (string, error)
}

// NewEnvResolver creates a resolver backed by the process environment.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{
		Getenv:     os.Getenv,
		LookupHome: lookupHome,
	}
}

func lookupHome(username string) (string, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// Resolve builds the Environment for m. When started through sudo the
// invoking user, not root, owns the home and state directories.
func (r *EnvResolver) Resolve(m *Manifest) (Environment, error) {
	sudoUser := r.Getenv("SUDO_USER")

	name := sudoUser
	if name == "" {
		name = r.Getenv("USER")
	}
	if name == "" {
		name = r.Getenv("LOGNAME")
	}
	if name == "" {
		return Environment{}, NewEnvUnsupportedError(
			"cannot determine the invoking user",
			"Set USER in the environment.",
		)
	}

	home := ""
	if sudoUser == "" {
		home = r.Getenv("HOME")
	}
	if home == "" {
		h, err := r.LookupHome(name)
		if err != nil || h == "" {
			return Environment{}, NewEnvUnsupportedError(
				"cannot determine the home directory of "+name,
				"Set HOME in the environment.",
			).WithUnderlying(err)
		}
		home = h
	}

	env := Environment{User: name, Home: home}

	base := m.Dir
	if base == "" {
		base = "."
	}
	env.SourceDir = filepath.Clean(base)
	if m.SourceDir != "" {
		env.SourceDir = env.resolve(m.SourceDir, base)
	}

	tmp := r.Getenv("TMPDIR")
	if tmp == "" {
		tmp = "/tmp"
	}
	env.TempDir = filepath.Join(tmp, AppName+"-"+name)
	if m.TempDir != "" {
		env.TempDir = env.resolve(m.TempDir, tmp)
	}

	env.StateDir = r.stateDir(sudoUser, home)
	return env, nil
}

func (r *EnvResolver) stateDir(sudoUser, home string) string {
	if dir := r.Getenv("XDG_STATE_HOME"); dir != "" && sudoUser == "" {
		return filepath.Join(dir, AppName)
	}
	if sudoUser != "" {
		return filepath.Join(home, ".local", "state", AppName)
	}
	return filepath.Join(xdg.StateHome, AppName)
}
