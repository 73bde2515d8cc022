package rebuild

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/changes"
	"github.com/temirov/protoci/internal/protos/dependencies"
	"github.com/temirov/protoci/internal/protos/generated"
	"github.com/temirov/protoci/internal/protos/revision"
	"github.com/temirov/protoci/internal/protos/shared"
	"github.com/temirov/protoci/internal/utils"
)

const (
	commandUseConstant                    = "rebuild [BASE_REVISION]"
	commandShortDescriptionConstant       = "Rebuild generated bindings for protos changed since a base revision"
	commandLongDescriptionConstant        = "rebuild resolves a base revision, detects changed proto and BUILD files, rebuilds the affected Bazel targets, regenerates language bindings, and fails when untracked generated files remain in the working tree."
	commandExecutionErrorTemplateConstant = "proto rebuild failed: %w"
	currentDirectoryConstant              = "."
	dispatchSummaryLogMessageConstant     = "Rebuild dispatch complete"
	logFieldAttemptedBuildsConstant       = "attempted_builds"
	logFieldFailedBuildsConstant          = "failed_builds"
	logFieldAttemptedGenerationsConstant  = "attempted_generations"
	logFieldFailedGenerationsConstant     = "failed_generations"
	logFieldTrackedProtosConstant         = "tracked_protos"
	configurationFileLogMessageConstant   = "Using configuration file"
	logFieldConfigurationFileConstant     = "configuration_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for the full rebuild pipeline.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     shared.CommandExecutor
	RepositoryManager            shared.RepositoryManager
	ProtoBuilder                 shared.ProtoBuilder
	ProtoCompiler                shared.ProtoCompiler
	WorkingDirectory             string
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the rebuild command.
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

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, pathPresent := contextAccessor.ConfigurationFilePath(command.Context()); pathPresent && len(configurationFilePath) > 0 {
		logger.Debug(configurationFileLogMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}

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

	protoBuilder, builderError := dependencies.ResolveProtoBuilder(builder.ProtoBuilder, commandExecutor)
	if builderError != nil {
		return builderError
	}

	protoCompiler, compilerError := dependencies.ResolveProtoCompiler(builder.ProtoCompiler, commandExecutor)
	if compilerError != nil {
		return compilerError
	}

	workingDirectory := builder.WorkingDirectory
	if len(workingDirectory) == 0 {
		workingDirectory = currentDirectoryConstant
	}

	repositoryPath, topLevelError := repositoryManager.ResolveTopLevelDirectory(command.Context(), workingDirectory)
	if topLevelError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, topLevelError)
	}

	revisionService, revisionServiceError := revision.NewService(revision.Dependencies{
		RepositoryManager: repositoryManager,
		Logger:            logger,
	})
	if revisionServiceError != nil {
		return revisionServiceError
	}

	revisionResult, resolutionError := revisionService.Resolve(command.Context(), revision.Options{
		RepositoryPath:    repositoryPath,
		RequestedRevision: requestedRevision,
		FallbackRevisions: configuration.FallbackRevisions,
	})
	if resolutionError != nil {
		revision.ReportFatalResolutionError(command.ErrOrStderr(), resolutionError)
		return fmt.Errorf(commandExecutionErrorTemplateConstant, resolutionError)
	}

	changeService, changeServiceError := changes.NewService(changes.Dependencies{
		RepositoryManager: repositoryManager,
		Logger:            logger,
	})
	if changeServiceError != nil {
		return changeServiceError
	}

	changeResult, detectionError := changeService.Detect(command.Context(), changes.Options{
		RepositoryPath:       repositoryPath,
		BaseRevision:         revisionResult.EffectiveRevision,
		ProtoDirectoryMarker: configuration.ProtoDirectoryMarker,
	})
	if detectionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, detectionError)
	}

	dispatchService, dispatchServiceError := NewService(Dependencies{
		ProtoBuilder:  protoBuilder,
		ProtoCompiler: protoCompiler,
		Logger:        logger,
	})
	if dispatchServiceError != nil {
		return dispatchServiceError
	}

	dispatchResult, dispatchError := dispatchService.Dispatch(command.Context(), Options{
		RepositoryPath:          repositoryPath,
		BuildPrefixes:           changeResult.BuildPrefixes,
		ProtoBaseNames:          changeResult.ProtoBaseNames,
		BindingsOutputDirectory: configuration.BindingsOutput,
		StubsOutputDirectory:    configuration.StubsOutput,
	})
	if dispatchError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, dispatchError)
	}

	logger.Info(
		dispatchSummaryLogMessageConstant,
		zap.Int(logFieldAttemptedBuildsConstant, dispatchResult.AttemptedBuilds),
		zap.Int(logFieldFailedBuildsConstant, dispatchResult.FailedBuilds),
		zap.Int(logFieldAttemptedGenerationsConstant, dispatchResult.AttemptedGenerations),
		zap.Int(logFieldFailedGenerationsConstant, dispatchResult.FailedGenerations),
		zap.Int(logFieldTrackedProtosConstant, len(changeResult.TrackedProtoFiles)),
	)

	auditService, auditServiceError := generated.NewService(generated.Dependencies{
		RepositoryManager: repositoryManager,
		Logger:            logger,
		ErrorWriter:       command.ErrOrStderr(),
	})
	if auditServiceError != nil {
		return auditServiceError
	}

	auditError := auditService.Audit(command.Context(), generated.Options{
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
