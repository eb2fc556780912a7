package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inputs and outputs
	DataDir       string
	ProfileOutput string
	ReportOutput  string

	// Sources maps a source name to its file, relative to DataDir or absolute
	Sources map[string]string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.refrecon.yaml or ./.refrecon.yaml, or CONFIG)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile(os.Getenv("CONFIG"))
}

// LoadConfigFile loads configuration like LoadConfig but reads the given
// config file. A missing explicit file is an error; a missing file in the
// standard locations is not.
func LoadConfigFile(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("profile_output", constants.DefaultProfileOutput)
	v.SetDefault("report_output", constants.DefaultReportOutput)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:       v.GetString("data_dir"),
		ProfileOutput: v.GetString("profile_output"),
		ReportOutput:  v.GetString("report_output"),
		Sources:       make(map[string]string),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	for _, id := range datasets.All() {
		if file := v.GetString("sources." + id.String()); file != "" {
			config.Sources[id.String()] = file
		}
	}

	return config, nil
}

// Flags holds the values of the global command-line flags and whether
// each was set explicitly.
type Flags struct {
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string
	DataDir  string

	// Changed records the names of flags given on the command line
	Changed map[string]bool
}

// UpdateFromFlags updates config values from parsed command flags.
// Flags that were not given keep the config file and env values.
func (c *Config) UpdateFromFlags(f Flags) {
	if f.Changed["verbose"] {
		c.Verbose = f.Verbose
	}
	if f.Changed["quiet"] {
		c.Quiet = f.Quiet
	}
	if f.Changed["no-color"] {
		c.NoColor = f.NoColor
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Changed["data-dir"] && f.DataDir != "" {
		c.DataDir = f.DataDir
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already present in the environment are kept.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
