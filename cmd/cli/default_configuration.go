package cli

import _ "embed"

//go:embed default_config.yaml
var defaultConfigurationFileContent []byte

// EmbeddedDefaultConfiguration exposes the baked-in configuration document and its format identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationCopy := make([]byte, len(defaultConfigurationFileContent))
	copy(configurationCopy, defaultConfigurationFileContent)
	return configurationCopy, configurationTypeConstant
}
