// Package paths resolves where agrorganica keeps its configuration and
// its data. Each location follows a precedence chain ending in a default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "agrorganica"

// DefaultDataDirName is the data directory created under the working
// directory when nothing else is configured.
const DefaultDataDirName = ".agrorganica-db"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// EnvFileName is the optional credentials file read before the
// environment.
const EnvFileName = ".env"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "AGRO_CONFIG_DIR"
	EnvDataDir   = "AGRO_DATA_DIR"
)

// platformDir holds platform lookups that tests can override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/agrorganica (fallback ~/.config/agrorganica)
// macOS:   ~/Library/Application Support/agrorganica
// Windows: %APPDATA%/agrorganica
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > AGRO_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > config.yaml value > AGRO_DATA_DIR > $(CWD)/.agrorganica-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of config.yaml inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
