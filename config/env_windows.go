//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// AugmentBuildPath prepends prefix's bin/pkg-config/cmake directories to
// PATH, PKG_CONFIG_PATH and CMAKE_MODULE_PATH so a spawned build
// sub-process (compiling a dynamics shared library on the fly) finds its
// tools — Windows only, since POSIX systems inherit the
// parent's environment unmodified.
func AugmentBuildPath(prefix string) {
	prependEnv("PATH", filepath.Join(prefix, "bin"))
	prependEnv("PKG_CONFIG_PATH", filepath.Join(prefix, "lib", "pkgconfig"))
	prependEnv("CMAKE_MODULE_PATH", filepath.Join(prefix, "share", "cmake"))
}

func prependEnv(key, dir string) {
	cur := os.Getenv(key)
	if cur == "" {
		os.Setenv(key, dir)
		return
	}
	os.Setenv(key, dir+string(os.PathListSeparator)+cur)
}
