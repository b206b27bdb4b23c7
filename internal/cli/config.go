package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/paths"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// Config keys.
const (
	keyBackend   = "backend"
	keyDataDir   = "data_dir"
	keyDSN       = "dsn"
	keyErrorLog  = "error_log"
	keyReportDir = "report_dir"
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
)

// envPrefix prefixes environment overrides, e.g. AGRO_DSN.
const envPrefix = "AGRO"

// envKeys are the keys environment variables may override. data_dir is
// left out because paths.ResolveDataDir ranks the environment below
// config.yaml.
var envKeys = []string{keyBackend, keyDSN, keyErrorLog, keyReportDir, keyLogLevel, keyLogFormat}

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	DSN       string `yaml:"dsn,omitempty"`
	ErrorLog  string `yaml:"error_log"`
	ReportDir string `yaml:"report_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:   types.BackendSQLite,
		ErrorLog:  logging.DefaultErrorLogFile,
		ReportDir: ".",
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// settings is the resolved configuration of one run.
type settings struct {
	ConfigDir string
	Store     types.Config
	ErrorLog  string
	ReportDir string
	LogLevel  string
	LogFormat string
}

// load resolves the directories, reads .env and config.yaml and fills
// a.settings.
func (a *app) load() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolving config directory: %w", err))
	}
	if err := ensureDefaultConfig(configDir); err != nil {
		return sysError(err)
	}
	if err := loadDotEnv(filepath.Join(configDir, paths.EnvFileName), paths.EnvFileName); err != nil {
		return sysError(err)
	}

	v, err := readConfig(configDir)
	if err != nil {
		return userError(err)
	}

	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(keyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolving data directory: %w", err))
	}

	a.settings = settings{
		ConfigDir: configDir,
		Store: types.Config{
			Backend: v.GetString(keyBackend),
			DataDir: dataDir,
			DSN:     v.GetString(keyDSN),
		},
		ErrorLog:  v.GetString(keyErrorLog),
		ReportDir: v.GetString(keyReportDir),
		LogLevel:  v.GetString(keyLogLevel),
		LogFormat: v.GetString(keyLogFormat),
	}
	return nil
}

// readConfig reads config.yaml with viper. A missing file is not an error.
func readConfig(configDir string) (*viper.Viper, error) {
	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(keyBackend, def.Backend)
	v.SetDefault(keyErrorLog, def.ErrorLog)
	v.SetDefault(keyReportDir, def.ReportDir)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFormat, def.LogFormat)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// loadDotEnv loads each existing .env file into the environment. Values
// already set in the environment are kept.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ensureDefaultConfig creates the config directory and writes a default
// config.yaml when none exists.
func ensureDefaultConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return writeConfigIfMissing(paths.ConfigFile(configDir), defaultConfigFile())
}

// writeConfigIfMissing writes cfg to path unless the file already exists.
func writeConfigIfMissing(path string, cfg configFile) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
