// Package dependencies provides default implementations for the collaborators
// used by the proto pipeline commands.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/bazelcli"
	"github.com/temirov/protoci/internal/execshell"
	"github.com/temirov/protoci/internal/gitrepo"
	"github.com/temirov/protoci/internal/protoccli"
	"github.com/temirov/protoci/internal/protos/shared"
	"github.com/temirov/protoci/internal/ui"
)

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default.
func ResolveCommandExecutor(existing shared.CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	var observers []execshell.CommandEventObserver
	if humanReadableLogging {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveRepositoryManager(existing shared.RepositoryManager, executor shared.CommandExecutor) (shared.RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveProtoBuilder returns the provided builder or creates a Bazel CLI-backed implementation.
func ResolveProtoBuilder(existing shared.ProtoBuilder, executor shared.CommandExecutor) (shared.ProtoBuilder, error) {
	if existing != nil {
		return existing, nil
	}
	return bazelcli.NewClient(executor)
}

// ResolveProtoCompiler returns the provided compiler or creates a protoc-backed implementation.
func ResolveProtoCompiler(existing shared.ProtoCompiler, executor shared.CommandExecutor) (shared.ProtoCompiler, error) {
	if existing != nil {
		return existing, nil
	}
	return protoccli.NewClient(executor)
}
