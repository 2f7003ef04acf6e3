package config

// DebianVersionFile marks a Debian-family host.
const DebianVersionFile = "/etc/debian_version"

// CheckNotRoot refuses to run as root unless allowRoot is set. Files would
// otherwise land in root's home with root ownership.
func CheckNotRoot(euid int, allowRoot bool) error {
	if euid != 0 || allowRoot {
		return nil
	}
	return NewEnvUnsupportedError(
		"refusing to run as root",
		"Run as your normal user; privileged commands go through sudo. Pass --allow-root to override.",
	)
}

// CheckHost verifies the host is Debian-family.
func CheckHost(exists func(path string) bool) error {
	if exists(DebianVersionFile) {
		return nil
	}
	return NewEnvUnsupportedError(
		"unsupported host: "+DebianVersionFile+" not found",
		"dotsetup installs packages with apt and needs a Debian-based system.",
	).WithContext(DebianVersionFile)
}
