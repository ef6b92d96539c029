package configfx

import (
	"os"
	"path/filepath"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/constants"
	"go.uber.org/fx"
)

// Config holds the application configuration
type Config struct {
	ConfigPath string // named model configuration file
	DBPath     string
	LogLevel   string
	PoseDir    string // Optional pose directory for pre-indexing
}

// Params represents the parameters needed to create configuration
type Params struct {
	fx.In

	ConfigPath string `name:"configPath" optional:"true"`
	DBPath     string `name:"dbPath"     optional:"true"`
	LogLevel   string `name:"logLevel"   optional:"true"`
	PoseDir    string `name:"poseDir"    optional:"true"`
}

// NewConfig creates a new configuration with defaults
func NewConfig(params Params) *Config {
	config := &Config{
		ConfigPath: params.ConfigPath,
		DBPath:     params.DBPath,
		LogLevel:   params.LogLevel,
		PoseDir:    params.PoseDir,
	}

	// Set defaults, environment first
	if config.ConfigPath == "" {
		config.ConfigPath = os.Getenv(constants.EnvConfig)
	}
	if config.ConfigPath == "" {
		config.ConfigPath = constants.DefaultConfigPath
	}
	if config.DBPath == "" {
		config.DBPath = os.Getenv(constants.EnvDB)
	}
	if config.DBPath == "" {
		config.DBPath = filepath.Join(os.TempDir(), constants.DefaultDBName)
	}
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv(constants.EnvLogLevel)
	}

	return config
}

// NewModelConfig loads the named model configuration file
func NewModelConfig(cfg *Config) (*config.File, error) {
	return config.Load(cfg.ConfigPath)
}

// Module provides configuration for the application
var Module = fx.Module("config",
	fx.Provide(NewConfig, NewModelConfig),
)
