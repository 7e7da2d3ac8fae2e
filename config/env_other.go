//go:build !windows

package config

// AugmentBuildPath is a no-op outside Windows: restricts the
// PATH/PKG_CONFIG_PATH/CMAKE_MODULE_PATH augmentation to that platform.
func AugmentBuildPath(prefix string) {}
