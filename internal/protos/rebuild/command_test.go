package rebuild_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/protoci/internal/protos/generated"
	"github.com/temirov/protoci/internal/protos/rebuild"
	"github.com/temirov/protoci/internal/protos/revision"
	"github.com/temirov/protoci/internal/utils"
)

const (
	commandUseNameConstant              = "rebuild"
	upstreamMasterReferenceConstant     = "upstream/master"
	originMasterReferenceConstant       = "origin/master"
	originMasterHashConstant            = "2222222222222222222222222222222222222222"
	changedProtoPathConstant            = "a/b/google/api/foo.proto"
	changedBuildPathConstant            = "a/b/google/api/BUR/BUILD"
	untrackedArtifactPathConstant       = "cirq/google/api/v2/foo_pb2.py"
	defaultAuditSubtreeConstant         = "cirq/google"
	invalidRevisionArgumentConstant     = "not-a-commit"
	fatalErrorMarkerConstant            = "ERROR:"
	configurationFilePathConstant       = "/tmp/protoci/config.yaml"
	configurationFileLogMessageConstant = "Using configuration file"
)

type stubRepositoryManager struct {
	commits         map[string]bool
	changedFiles    []string
	untrackedPaths  []string
	diffRevisions   []string
	auditedSubtrees []string
}

func (manager *stubRepositoryManager) ResolveTopLevelDirectory(_ context.Context, _ string) (string, error) {
	return repositoryPathConstant, nil
}

func (manager *stubRepositoryManager) IsCommit(_ context.Context, _ string, reference string) (bool, error) {
	return manager.commits[reference], nil
}

func (manager *stubRepositoryManager) ResolveCommitHash(_ context.Context, _ string, _ string) (string, error) {
	return originMasterHashConstant, nil
}

func (manager *stubRepositoryManager) MergeBase(_ context.Context, _ string, _ string, _ string) (string, error) {
	return originMasterHashConstant, nil
}

func (manager *stubRepositoryManager) ListChangedFiles(_ context.Context, _ string, baseRevision string) ([]string, error) {
	manager.diffRevisions = append(manager.diffRevisions, baseRevision)
	return manager.changedFiles, nil
}

func (manager *stubRepositoryManager) ListTrackedFiles(_ context.Context, _ string, _ string) ([]string, error) {
	return []string{changedProtoPathConstant}, nil
}

func (manager *stubRepositoryManager) ListUntrackedFiles(_ context.Context, _ string, subtreePath string) ([]string, error) {
	manager.auditedSubtrees = append(manager.auditedSubtrees, subtreePath)
	return manager.untrackedPaths, nil
}

func TestCommandBuilderBuild(testInstance *testing.T) {
	builder := &rebuild.CommandBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, commandUseNameConstant, command.Name())
}

func TestCommandRunsFullPipeline(testInstance *testing.T) {
	manager := &stubRepositoryManager{
		commits:      map[string]bool{originMasterReferenceConstant: true},
		changedFiles: []string{changedProtoPathConstant, changedBuildPathConstant},
	}
	protoBuilder := &stubProtoBuilder{}
	protoCompiler := &stubProtoCompiler{}
	builder := &rebuild.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.NewNop() },
		RepositoryManager: manager,
		ProtoBuilder:      protoBuilder,
		ProtoCompiler:     protoCompiler,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())

	executionError := command.RunE(command, nil)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{originMasterReferenceConstant}, manager.diffRevisions)
	require.Equal(testInstance, []string{
		changedBuildPrefixConstant + "...:*",
		changedProtoBaseConstant + "_proto",
		changedProtoBaseConstant + "_py_pb2",
		changedProtoBaseConstant + "_cc_proto",
	}, protoBuilder.builtTargets)
	require.Len(testInstance, protoCompiler.requests, 1)
	require.Equal(testInstance, changedProtoBaseConstant+".proto", protoCompiler.requests[0].SourceFile)
	require.Equal(testInstance, []string{defaultAuditSubtreeConstant}, manager.auditedSubtrees)
}

func TestCommandLogsConfigurationFileFromContext(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	manager := &stubRepositoryManager{
		commits: map[string]bool{originMasterReferenceConstant: true},
	}
	builder := &rebuild.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.New(observedCore) },
		RepositoryManager: manager,
		ProtoBuilder:      &stubProtoBuilder{},
		ProtoCompiler:     &stubProtoCompiler{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	contextAccessor := utils.NewCommandContextAccessor()
	command.SetContext(contextAccessor.WithConfigurationFilePath(context.Background(), configurationFilePathConstant))

	executionError := command.RunE(command, nil)

	require.NoError(testInstance, executionError)
	configurationFileLogged := false
	for _, logEntry := range observedLogs.All() {
		if logEntry.Message == configurationFileLogMessageConstant {
			configurationFileLogged = true
			require.Equal(testInstance, configurationFilePathConstant, logEntry.ContextMap()["configuration_file"])
		}
	}
	require.True(testInstance, configurationFileLogged)
}

func TestCommandFailsWhenUntrackedArtifactsRemain(testInstance *testing.T) {
	color.NoColor = true

	manager := &stubRepositoryManager{
		commits:        map[string]bool{originMasterReferenceConstant: true},
		untrackedPaths: []string{untrackedArtifactPathConstant},
	}
	builder := &rebuild.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.NewNop() },
		RepositoryManager: manager,
		ProtoBuilder:      &stubProtoBuilder{},
		ProtoCompiler:     &stubProtoCompiler{},
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
	require.Contains(testInstance, errorBuffer.String(), untrackedArtifactPathConstant)
}

func TestCommandRejectsInvalidExplicitRevision(testInstance *testing.T) {
	color.NoColor = true

	manager := &stubRepositoryManager{commits: map[string]bool{}}
	builder := &rebuild.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.NewNop() },
		RepositoryManager: manager,
		ProtoBuilder:      &stubProtoBuilder{},
		ProtoCompiler:     &stubProtoCompiler{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	errorBuffer := &bytes.Buffer{}
	command.SetErr(errorBuffer)
	command.SetContext(context.Background())

	executionError := command.RunE(command, []string{invalidRevisionArgumentConstant})

	require.Error(testInstance, executionError)
	var invalidRevisionError revision.InvalidRevisionError
	require.ErrorAs(testInstance, executionError, &invalidRevisionError)
	require.Contains(testInstance, errorBuffer.String(), fatalErrorMarkerConstant)
	require.Contains(testInstance, errorBuffer.String(), invalidRevisionArgumentConstant)
}
