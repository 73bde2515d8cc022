package protoccli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/protoci/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant    = "protoc executor not configured"
	sourceFileRequiredMessageConstant       = "source proto file required"
	includePathFlagTemplateConstant         = "-I=%s"
	bindingsOutputFlagTemplateConstant      = "--python_out=%s"
	stubsOutputFlagTemplateConstant         = "--mypy_out=%s"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	defaultIncludePathConstant              = "."
	defaultOutputDirectoryConstant          = "."
	generateBindingsOperationNameConstant   = OperationName("GenerateBindings")
)

// OperationName describes a named protoc workflow supported by the client.
type OperationName string

// GenerationRequest describes a single binding regeneration.
type GenerationRequest struct {
	IncludePath             string
	BindingsOutputDirectory string
	StubsOutputDirectory    string
	SourceFile              string
}

// ProtocCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type ProtocCommandExecutor interface {
	ExecuteProtoc(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
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

// OperationError wraps execution issues for protoc operations.
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

// Client coordinates protoc invocations through execshell.
type Client struct {
	executor ProtocCommandExecutor
}

// NewClient constructs a Client after validating the executor dependency.
func NewClient(executor ProtocCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// GenerateBindings regenerates language bindings and type stubs for the requested proto file.
func (client *Client) GenerateBindings(executionContext context.Context, workingDirectory string, request GenerationRequest) error {
	trimmedSourceFile := strings.TrimSpace(request.SourceFile)
	if len(trimmedSourceFile) == 0 {
		return InvalidInputError{FieldName: "source_file", Message: sourceFileRequiredMessageConstant}
	}

	includePath := strings.TrimSpace(request.IncludePath)
	if len(includePath) == 0 {
		includePath = defaultIncludePathConstant
	}
	bindingsOutputDirectory := strings.TrimSpace(request.BindingsOutputDirectory)
	if len(bindingsOutputDirectory) == 0 {
		bindingsOutputDirectory = defaultOutputDirectoryConstant
	}
	stubsOutputDirectory := strings.TrimSpace(request.StubsOutputDirectory)
	if len(stubsOutputDirectory) == 0 {
		stubsOutputDirectory = defaultOutputDirectoryConstant
	}

	_, executionError := client.executor.ExecuteProtoc(executionContext, execshell.CommandDetails{
		Arguments: []string{
			fmt.Sprintf(includePathFlagTemplateConstant, includePath),
			fmt.Sprintf(bindingsOutputFlagTemplateConstant, bindingsOutputDirectory),
			fmt.Sprintf(stubsOutputFlagTemplateConstant, stubsOutputDirectory),
			trimmedSourceFile,
		},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return OperationError{Operation: generateBindingsOperationNameConstant, Cause: executionError}
	}
	return nil
}
