package bazelcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/protoci/internal/execshell"
)

const (
	buildSubcommandConstant                 = "build"
	executorNotConfiguredMessageConstant    = "bazel executor not configured"
	targetPatternRequiredMessageConstant    = "target pattern required"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	treeTargetPatternTemplateConstant       = "%s...:*"
	buildTargetsOperationNameConstant       = OperationName("BuildTargets")
)

// OperationName describes a named Bazel workflow supported by the client.
type OperationName string

// BazelCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type BazelCommandExecutor interface {
	ExecuteBazel(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for Bazel operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Client coordinates Bazel invocations through execshell.
type Client struct {
	executor BazelCommandExecutor
}

// NewClient constructs a Client after validating the executor dependency.
func NewClient(executor BazelCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// TreeTargetPattern derives the all-targets pattern for a directory prefix.
func TreeTargetPattern(directoryPrefix string) string {
	return fmt.Sprintf(treeTargetPatternTemplateConstant, directoryPrefix)
}

// BuildTargets invokes bazel build with the provided target pattern inside the working directory.
func (client *Client) BuildTargets(executionContext context.Context, workingDirectory string, targetPattern string) error {
	trimmedTargetPattern := strings.TrimSpace(targetPattern)
	if len(trimmedTargetPattern) == 0 {
		return InvalidInputError{FieldName: "target_pattern", Message: targetPatternRequiredMessageConstant}
	}

	_, executionError := client.executor.ExecuteBazel(executionContext, execshell.CommandDetails{
		Arguments:        []string{buildSubcommandConstant, trimmedTargetPattern},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return OperationError{Operation: buildTargetsOperationNameConstant, Cause: executionError}
	}
	return nil
}
