package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "qgrade"

	// ConfigFileName is the file written by `qgrade init`
	ConfigFileName = ".qgrade.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "QGRADE"

	// ConfigEnvVar points at a config file when discovery finds none
	ConfigEnvVar = EnvVarPrefix + "_CONFIG"
)

// Ignore marker defaults
const (
	// DefaultIgnoreMarker on a file's first line excludes it from the critical verdict
	DefaultIgnoreMarker = "validate-ignore"

	// DefaultProjectRoot is where violating files are looked up, relative to the working directory
	DefaultProjectRoot = "."
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Input defaults
const (
	DefaultDelimiter = ","
)
