package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/envinject/pkg/constants"
	pkgerrors "github.com/agentstation/envinject/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .envinject.env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Run settings
	Format string
	Suffix string
	DryRun bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (ENVINJECT_*, plus LOG_LEVEL/LOG_FORMAT/LOG_OUTPUT)
// 3. .envinject.env files
// 4. Config file (configFile, or .envinject.yaml in $HOME or the working directory)
// 5. Defaults
//
// A missing config file is only an error when configFile names it.
// Discovery only looks at YAML names, so the .envinject.env files are
// never mistaken for the config file.
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", "log")
	v.SetDefault("suffix", constants.InjectedSuffix)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, pkgerrors.NewConfigError("viper", "failed to read config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),

		ConfigFile: v.ConfigFileUsed(),

		Format: v.GetString("format"),
		Suffix: v.GetString("suffix"),
		DryRun: v.GetBool("dry_run"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}

	return config, nil
}

// UpdateFromFlags updates config values from flags set on the command line.
// Flags left at their defaults do not override file or environment values.
func (c *Config) UpdateFromFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		c.Verbose = mustGetBool(cmd, "verbose")
	}
	if flags.Changed("quiet") {
		c.Quiet = mustGetBool(cmd, "quiet")
	}
	if flags.Changed("no-color") {
		c.NoColor = mustGetBool(cmd, "no-color")
	}
	if flags.Changed("log-level") {
		c.LogLevel = mustGetString(cmd, "log-level")
	}
}

// configExtensions are the config file extensions tried during discovery.
var configExtensions = []string{"yaml", "yml"}

// findConfigFile returns the first .envinject.yaml or .envinject.yml in
// $HOME, then the working directory, or "" when there is none.
func findConfigFile() string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, ".")

	for _, dir := range dirs {
		for _, ext := range configExtensions {
			path := filepath.Join(dir, constants.ConfigName+"."+ext)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path
			}
		}
	}
	return ""
}

// loadEnvFiles loads environment variables from .envinject.env files.
// .envinject.env.local is loaded first so its values win; godotenv never
// overrides variables that are already set.
func loadEnvFiles() {
	envFiles := []string{
		constants.ConfigName + ".env.local",
		constants.ConfigName + ".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
