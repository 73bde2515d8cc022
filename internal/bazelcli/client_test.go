package bazelcli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/protoci/internal/bazelcli"
	"github.com/temirov/protoci/internal/execshell"
)

type recordingBazelExecutor struct {
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *recordingBazelExecutor) ExecuteBazel(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewClientRequiresExecutor(t *testing.T) {
	client, creationError := bazelcli.NewClient(nil)
	require.ErrorIs(t, creationError, bazelcli.ErrExecutorNotConfigured)
	require.Nil(t, client)
}

func TestTreeTargetPattern(t *testing.T) {
	require.Equal(t, "a/b/google/api/BUR/...:*", bazelcli.TreeTargetPattern("a/b/google/api/BUR/"))
}

func TestBuildTargetsValidatesPattern(t *testing.T) {
	executor := &recordingBazelExecutor{}
	client, creationError := bazelcli.NewClient(executor)
	require.NoError(t, creationError)

	buildError := client.BuildTargets(context.Background(), "/workspace/repo", "  ")
	require.Error(t, buildError)
	require.IsType(t, bazelcli.InvalidInputError{}, buildError)
	require.Empty(t, executor.recordedCommands)
}

func TestBuildTargetsInvokesBazelBuild(t *testing.T) {
	executor := &recordingBazelExecutor{}
	client, creationError := bazelcli.NewClient(executor)
	require.NoError(t, creationError)

	buildError := client.BuildTargets(context.Background(), "/workspace/repo", "google/api/foo_proto")
	require.NoError(t, buildError)
	require.Len(t, executor.recordedCommands, 1)
	require.Equal(t, []string{"build", "google/api/foo_proto"}, executor.recordedCommands[0].Arguments)
	require.Equal(t, "/workspace/repo", executor.recordedCommands[0].WorkingDirectory)
}

func TestBuildTargetsWrapsExecutionFailures(t *testing.T) {
	executionFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandBazel},
		Result:  execshell.ExecutionResult{ExitCode: 1},
	}
	executor := &recordingBazelExecutor{executionError: executionFailure}
	client, creationError := bazelcli.NewClient(executor)
	require.NoError(t, creationError)

	buildError := client.BuildTargets(context.Background(), "/workspace/repo", "google/api/foo_proto")
	require.Error(t, buildError)
	require.IsType(t, bazelcli.OperationError{}, buildError)
	require.ErrorContains(t, buildError, "BuildTargets operation failed")
}
