// Package common provides shared types and constants used across the
// warpremind client-daemon communication layer.
package common

import (
	"os"
	"path/filepath"
)

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "WARPREMIND_CONFIG_DIR"

	// ListenEnv overrides the daemon's RPC listen address.
	ListenEnv = "WARPREMIND_LISTEN"

	// DebugEnv enables debug logging.
	DebugEnv = "WARPREMIND_DEBUG"

	// RPCSecretEnv supplies the RPC bearer token, bypassing the keyring.
	RPCSecretEnv = "WARPREMIND_RPC_SECRET"
)

// ConfigDir returns the directory holding config.json, the database and
// the secret fallback file.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "warpremind")
	}
	return filepath.Join(os.TempDir(), "warpremind")
}

// DebugEnabled reports whether DebugEnv is set to a truthy value.
func DebugEnabled() bool {
	switch os.Getenv(DebugEnv) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
