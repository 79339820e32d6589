// Package utils holds shared constants, logging, version reporting and path safety helpers.
package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""


const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "skel"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".skel"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// ConfigFileName is the local configuration file in the working directory.
	ConfigFileName = ".skel.yaml"
	// EnvironmentPrefix prefixes environment overrides such as SKEL_SERVE_ADDRESS.
	EnvironmentPrefix = "SKEL"
	// DotEnvFileName is loaded before the HTTP service starts.
	DotEnvFileName = ".env"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "skel failed"
)
