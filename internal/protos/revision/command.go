package revision

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/dependencies"
	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	commandUseConstant                    = "resolve [BASE_REVISION]"
	commandShortDescriptionConstant       = "Resolve the base revision used for proto change detection"
	commandLongDescriptionConstant        = "resolve validates an explicit base revision or falls back through well-known upstream references, substituting the merge base with HEAD when the revision is not an ancestor."
	commandExecutionErrorTemplateConstant = "base revision resolution failed: %w"
	resolvedRevisionTemplateConstant      = "%s\n"
	currentDirectoryConstant              = "."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for base revision resolution.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     shared.CommandExecutor
	RepositoryManager            shared.RepositoryManager
	WorkingDirectory             string
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the resolve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	requestedRevision := ""
	if len(arguments) > 0 {
		requestedRevision = arguments[0]
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(builder.RepositoryManager, commandExecutor)
	if managerError != nil {
		return managerError
	}

	workingDirectory := builder.WorkingDirectory
	if len(workingDirectory) == 0 {
		workingDirectory = currentDirectoryConstant
	}

	repositoryPath, topLevelError := repositoryManager.ResolveTopLevelDirectory(command.Context(), workingDirectory)
	if topLevelError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, topLevelError)
	}

	service, serviceCreationError := NewService(Dependencies{RepositoryManager: repositoryManager, Logger: logger})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	result, resolutionError := service.Resolve(command.Context(), Options{
		RepositoryPath:    repositoryPath,
		RequestedRevision: requestedRevision,
		FallbackRevisions: configuration.FallbackRevisions,
	})
	if resolutionError != nil {
		ReportFatalResolutionError(command.ErrOrStderr(), resolutionError)
		return fmt.Errorf(commandExecutionErrorTemplateConstant, resolutionError)
	}

	fmt.Fprintf(command.OutOrStdout(), resolvedRevisionTemplateConstant, result.EffectiveRevision)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
