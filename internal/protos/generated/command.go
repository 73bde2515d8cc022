package generated

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/dependencies"
	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	commandUseConstant                    = "audit"
	commandShortDescriptionConstant       = "Fail when untracked generated files exist in the working tree"
	commandLongDescriptionConstant        = "audit lists untracked files under the generated-code subtree and exits with a failure when any are found, treating them as generated-but-uncommitted artifacts."
	commandExecutionErrorTemplateConstant = "generated-file audit failed: %w"
	currentDirectoryConstant              = "."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for the generated-file audit.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     shared.CommandExecutor
	RepositoryManager            shared.RepositoryManager
	WorkingDirectory             string
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the audit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

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

	service, serviceCreationError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		Logger:            logger,
		ErrorWriter:       command.ErrOrStderr(),
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	auditError := service.Audit(command.Context(), Options{
		RepositoryPath: repositoryPath,
		AuditSubtree:   configuration.AuditSubtree,
	})
	if auditError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, auditError)
	}

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
