package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	rebuildSubcommandNameConstant = "rebuild"
	resolveSubcommandNameConstant = "resolve"
	auditSubcommandNameConstant   = "audit"
)

func TestNewApplicationRegistersSubcommands(t *testing.T) {
	application := NewApplication()

	registeredNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	require.True(t, registeredNames[rebuildSubcommandNameConstant])
	require.True(t, registeredNames[resolveSubcommandNameConstant])
	require.True(t, registeredNames[auditSubcommandNameConstant])
}

func TestHumanReadableLoggingEnabled(t *testing.T) {
	testCases := []struct {
		name           string
		logFormat      string
		expectedResult bool
	}{
		{name: "console_format", logFormat: "console", expectedResult: true},
		{name: "console_format_mixed_case", logFormat: "Console", expectedResult: true},
		{name: "structured_format", logFormat: "structured", expectedResult: false},
		{name: "empty_format", logFormat: "", expectedResult: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(subtest *testing.T) {
			application := &Application{
				logger: zap.NewNop(),
				configuration: ApplicationConfiguration{
					Common: ApplicationCommonConfiguration{LogFormat: testCase.logFormat},
				},
			}

			require.Equal(subtest, testCase.expectedResult, application.humanReadableLoggingEnabled())
		})
	}
}

func TestInitializeConfigurationAppliesEmbeddedDefaults(t *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	initializationError := application.initializeConfiguration(rootCommand)
	require.NoError(t, initializationError)

	rebuildConfiguration := application.configuration.Tools.Rebuild.Sanitize()
	require.Equal(t, []string{"upstream/master", "origin/master", "master"}, rebuildConfiguration.FallbackRevisions)
	require.Equal(t, "google/api/", rebuildConfiguration.ProtoDirectoryMarker)
	require.Equal(t, "cirq/google", rebuildConfiguration.AuditSubtree)

	configurationFilePath, exists := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
	require.True(t, exists)
	require.Equal(t, application.configurationMetadata.ConfigFileUsed, configurationFilePath)
}

func TestInitializeConfigurationHonorsLogFlagOverrides(t *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	require.NoError(t, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	initializationError := application.initializeConfiguration(rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.Equal(t, "console", application.configuration.Common.LogFormat)
	require.True(t, application.humanReadableLoggingEnabled())
}
