package generated_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/generated"
)

const commandUseNameConstant = "audit"

func TestCommandBuilderBuild(testInstance *testing.T) {
	builder := &generated.CommandBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, commandUseNameConstant, command.Name())
}

func TestCommandSucceedsWithCleanSubtree(testInstance *testing.T) {
	manager := &stubRepositoryManager{}
	builder := &generated.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.NewNop() },
		RepositoryManager: manager,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())

	executionError := command.RunE(command, nil)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{defaultAuditSubtreeConstant}, manager.auditedSubtrees)
}

func TestCommandFailsOnUntrackedGeneratedFiles(testInstance *testing.T) {
	color.NoColor = true

	manager := &stubRepositoryManager{
		untrackedPaths: []string{firstUntrackedPathConstant},
	}
	builder := &generated.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.NewNop() },
		RepositoryManager: manager,
		ConfigurationProvider: func() generated.CommandConfiguration {
			return generated.CommandConfiguration{AuditSubtree: customAuditSubtreeConstant}
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	errorBuffer := &bytes.Buffer{}
	command.SetErr(errorBuffer)
	command.SetContext(context.Background())

	executionError := command.RunE(command, nil)

	require.Error(testInstance, executionError)
	var artifactsError generated.UncommittedArtifactsError
	require.ErrorAs(testInstance, executionError, &artifactsError)
	require.Equal(testInstance, []string{customAuditSubtreeConstant}, manager.auditedSubtrees)
	require.Contains(testInstance, errorBuffer.String(), firstUntrackedPathConstant)
}
