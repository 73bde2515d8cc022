package utils

import "context"

type executionContextKey string

const configurationFileContextKeyConstant executionContextKey = "protoci.configuration_file"

// CommandContextAccessor reads and writes values carried on command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the resolved configuration file path.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFileContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path carried on the context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, pathPresent := executionContext.Value(configurationFileContextKeyConstant).(string)
	if !pathPresent {
		return "", false
	}
	return configurationFilePath, true
}
