package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading ~ or ~/ with the user's home directory.
// ~user forms are returned unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// Expand substitutes ${HOSTNAME}, ${USER} and ${HOME} in a local path, then
// expands ~. One shared config can then write a log per host.
func Expand(s string) string {
	if s == "" || !strings.ContainsAny(s, "$~") {
		return s
	}
	r := strings.NewReplacer(
		"${HOSTNAME}", hostname(),
		"${USER}", username(),
		"${HOME}", homeDir(),
	)
	return ExpandTilde(r.Replace(s))
}

func hostname() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}

// username checks USER, then LOGNAME, then USERNAME (Windows).
func username() string {
	for _, env := range []string{"USER", "LOGNAME", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "user"
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "~"
}
