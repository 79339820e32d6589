// Package config loads layered skel configuration from global and local YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/utils"
)

const (
	environmentKeySeparator = "_"
	configurationKeyDivider = "."

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorDirectoryFormat        = "configuration path %s is a directory"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"
	errorDecodeEnvironment      = "decode environment configuration: %w"
	errorBindEnvironmentFormat  = "bind environment key %s: %w"
	errorLoadEnvironmentFormat  = "load %s: %w"
)

// environmentKeys may be overridden through SKEL_* variables, for example SKEL_SERVE_ADDRESS.
var environmentKeys = []string{
	"serve.address",
	"serve.rate_limit",
	"serve.rate_window",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Parse    ParseConfiguration    `mapstructure:"parse"`
	Generate GenerateConfiguration `mapstructure:"generate"`
	Serve    ServeConfiguration    `mapstructure:"serve"`
}

// ParseConfiguration defines defaults for the parse command.
type ParseConfiguration struct {
	Format  string `mapstructure:"format"`
	Summary *bool  `mapstructure:"summary"`
	Copy    *bool  `mapstructure:"copy"`
}

// GenerateConfiguration defines defaults for the generate command.
type GenerateConfiguration struct {
	Template string        `mapstructure:"template"`
	Output   string        `mapstructure:"output"`
	Force    *bool         `mapstructure:"force"`
	Project  stack.Project `mapstructure:"project"`
}

// ServeConfiguration defines defaults for the HTTP service.
type ServeConfiguration struct {
	Address    string `mapstructure:"address"`
	RateLimit  *int   `mapstructure:"rate_limit"`
	RateWindow string `mapstructure:"rate_window"`
}

// LoadApplicationConfiguration merges, in increasing priority, the global file,
// the local or explicit file and SKEL_* environment variables.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := GlobalConfigurationPath(); globalPath != "" {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	environmentConfig, environmentErr := loadEnvironmentConfiguration()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	return merged.Merge(environmentConfig), nil
}

// GlobalConfigurationPath returns ~/.skel/config.yaml, or an empty string when no home directory is known.
func GlobalConfigurationPath() string {
	homeDirectory, err := os.UserHomeDir()
	if err != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// LoadEnvironmentFile exports the variables of a dotenv file without overriding existing ones.
// A missing file is not an error; the result reports whether the file was read.
func LoadEnvironmentFile(path string) (bool, error) {
	if loadErr := godotenv.Load(path); loadErr != nil {
		if errors.Is(loadErr, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(errorLoadEnvironmentFormat, path, loadErr)
	}
	return true, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeErr)
	}
	return config, nil
}

// loadEnvironmentConfiguration decodes only the keys whose SKEL_* variable is set.
func loadEnvironmentConfiguration() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(configurationKeyDivider, environmentKeySeparator))
	reader.AutomaticEnv()
	for _, key := range environmentKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorBindEnvironmentFormat, key, bindErr)
		}
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeEnvironment, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Parse = result.Parse.merge(override.Parse)
	result.Generate = result.Generate.merge(override.Generate)
	result.Serve = result.Serve.merge(override.Serve)
	return result
}

func (config ParseConfiguration) merge(override ParseConfiguration) ParseConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config GenerateConfiguration) merge(override GenerateConfiguration) GenerateConfiguration {
	result := config
	if override.Template != "" {
		result.Template = override.Template
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Force != nil {
		result.Force = cloneBool(override.Force)
	}
	result.Project = result.Project.Merge(override.Project)
	return result
}

func (config ServeConfiguration) merge(override ServeConfiguration) ServeConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.RateLimit != nil {
		result.RateLimit = cloneInt(override.RateLimit)
	}
	if override.RateWindow != "" {
		result.RateWindow = override.RateWindow
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
