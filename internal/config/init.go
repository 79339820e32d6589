package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/skel/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .skel.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes ~/.skel/config.yaml.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryMode os.FileMode = 0o755
	configurationFileMode      os.FileMode = 0o600

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeDirectoryFormat    = "resolve home directory for configuration: %w"
	errorInitCreateDirectoryFormat  = "create configuration directory %s: %w"
	errorInitTargetFormat           = "unsupported init target %q"
	errorInitExistsFormat           = "%s: %w"
	errorInitInspectFormat          = "inspect configuration path %s: %w"
	errorInitWriteFormat            = "write configuration to %s: %w"

	defaultConfigurationTemplate = `# skel configuration. Local .skel.yaml overrides ~/.skel/config.yaml.
parse:
  # raw, json or xml
  format: raw
  summary: true
  copy: false
generate:
  # one of: skel templates
  template: ""
  # directory the skeleton is written into; empty writes a ZIP with --zip
  output: .
  force: false
  # overrides template defaults; command line flags override both
  project:
    author: ""
    license: MIT
    # language: typescript
    # database: postgres
    # auth: nextauth
    # ui: tailwind
    # testing: vitest
    # deploy: vercel
serve:
  address: 127.0.0.1:8080
  # requests per client and window for /parse and /generate; negative disables
  rate_limit: 30
  rate_window: 1m
`
)

// ErrConfigurationExists is returned when the target file exists and Force is not set.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the commented default configuration and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		destinationPath = GlobalConfigurationPath()
		if destinationPath == "" {
			return "", fmt.Errorf(errorInitHomeDirectoryFormat, os.ErrNotExist)
		}
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryMode); err != nil {
			return "", fmt.Errorf(errorInitCreateDirectoryFormat, configurationDirectory, err)
		}
	default:
		return "", fmt.Errorf(errorInitTargetFormat, target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(errorInitExistsFormat, destinationPath, ErrConfigurationExists)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(errorInitInspectFormat, destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFileMode); err != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}
	return destinationPath, nil
}
