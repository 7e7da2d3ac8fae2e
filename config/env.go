package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrHomeUnresolved is returned when none of VLE_HOME, HOME, or
// HOMEDRIVE+HOMEPATH are set.
var ErrHomeUnresolved = errors.New("config: cannot resolve a home directory")

// ResolveHome implements environment-variable precedence:
// VLE_HOME overrides; otherwise HOME (or, on platforms without it,
// HOMEDRIVE+HOMEPATH) supplies the default home.
func ResolveHome() (string, error) {
	if h := os.Getenv("VLE_HOME"); h != "" {
		return h, nil
	}
	if h := os.Getenv("HOME"); h != "" {
		return filepath.Join(h, ".vle"), nil
	}
	drive, path := os.Getenv("HOMEDRIVE"), os.Getenv("HOMEPATH")
	if drive != "" || path != "" {
		return filepath.Join(drive+path, ".vle"), nil
	}
	return "", ErrHomeUnresolved
}

// PkgsRoot returns home's "pkgs" subdirectory, the root SharedLibraryResolver
// walks filesystem layout.
func PkgsRoot(home string) string {
	return filepath.Join(home, "pkgs")
}
