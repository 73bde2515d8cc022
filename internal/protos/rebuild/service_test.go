package rebuild_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protoccli"
	"github.com/temirov/protoci/internal/protos/rebuild"
)

const (
	repositoryPathConstant     = "/workspace/project"
	changedProtoBaseConstant   = "a/b/google/api/foo"
	changedBuildPrefixConstant = "a/b/google/api/BUR/"
	bindingsOutputConstant     = "."
	stubsOutputConstant        = "."
	failingTargetConstant      = "a/b/google/api/foo_cc_proto"
)

type stubProtoBuilder struct {
	builtTargets   []string
	failingTargets map[string]error
}

func (builder *stubProtoBuilder) BuildTargets(_ context.Context, _ string, targetPattern string) error {
	builder.builtTargets = append(builder.builtTargets, targetPattern)
	return builder.failingTargets[targetPattern]
}

type stubProtoCompiler struct {
	requests        []protoccli.GenerationRequest
	generationError error
}

func (compiler *stubProtoCompiler) GenerateBindings(_ context.Context, _ string, request protoccli.GenerationRequest) error {
	compiler.requests = append(compiler.requests, request)
	return compiler.generationError
}

func TestNewServiceValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  rebuild.Dependencies
		expectedError error
	}{
		{
			name:          "missing_proto_builder",
			dependencies:  rebuild.Dependencies{ProtoCompiler: &stubProtoCompiler{}},
			expectedError: rebuild.ErrProtoBuilderNotConfigured,
		},
		{
			name:          "missing_proto_compiler",
			dependencies:  rebuild.Dependencies{ProtoBuilder: &stubProtoBuilder{}},
			expectedError: rebuild.ErrProtoCompilerNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			service, creationError := rebuild.NewService(testCase.dependencies)

			require.ErrorIs(subtest, creationError, testCase.expectedError)
			require.Nil(subtest, service)
		})
	}
}

func TestServiceDispatchInvokesExpectedTargets(testInstance *testing.T) {
	protoBuilder := &stubProtoBuilder{}
	protoCompiler := &stubProtoCompiler{}
	service, creationError := rebuild.NewService(rebuild.Dependencies{
		ProtoBuilder:  protoBuilder,
		ProtoCompiler: protoCompiler,
		Logger:        zap.NewNop(),
	})
	require.NoError(testInstance, creationError)

	result, dispatchError := service.Dispatch(context.Background(), rebuild.Options{
		RepositoryPath:          repositoryPathConstant,
		BuildPrefixes:           []string{changedBuildPrefixConstant},
		ProtoBaseNames:          []string{changedProtoBaseConstant},
		BindingsOutputDirectory: bindingsOutputConstant,
		StubsOutputDirectory:    stubsOutputConstant,
	})

	require.NoError(testInstance, dispatchError)
	require.Equal(testInstance, rebuild.Result{AttemptedBuilds: 4, AttemptedGenerations: 1}, result)
	require.Equal(testInstance, []string{
		changedBuildPrefixConstant + "...:*",
		changedProtoBaseConstant + "_proto",
		changedProtoBaseConstant + "_py_pb2",
		changedProtoBaseConstant + "_cc_proto",
	}, protoBuilder.builtTargets)
	require.Equal(testInstance, []protoccli.GenerationRequest{
		{
			BindingsOutputDirectory: bindingsOutputConstant,
			StubsOutputDirectory:    stubsOutputConstant,
			SourceFile:              changedProtoBaseConstant + ".proto",
		},
	}, protoCompiler.requests)
}

func TestServiceDispatchCountsFailuresWithoutPropagating(testInstance *testing.T) {
	protoBuilder := &stubProtoBuilder{
		failingTargets: map[string]error{failingTargetConstant: errors.New("build failure")},
	}
	protoCompiler := &stubProtoCompiler{generationError: errors.New("generation failure")}
	service, creationError := rebuild.NewService(rebuild.Dependencies{
		ProtoBuilder:  protoBuilder,
		ProtoCompiler: protoCompiler,
		Logger:        zap.NewNop(),
	})
	require.NoError(testInstance, creationError)

	result, dispatchError := service.Dispatch(context.Background(), rebuild.Options{
		RepositoryPath: repositoryPathConstant,
		ProtoBaseNames: []string{changedProtoBaseConstant},
	})

	require.NoError(testInstance, dispatchError)
	require.Equal(testInstance, rebuild.Result{
		AttemptedBuilds:      3,
		FailedBuilds:         1,
		AttemptedGenerations: 1,
		FailedGenerations:    1,
	}, result)
}

func TestServiceDispatchRequiresRepositoryPath(testInstance *testing.T) {
	service, creationError := rebuild.NewService(rebuild.Dependencies{
		ProtoBuilder:  &stubProtoBuilder{},
		ProtoCompiler: &stubProtoCompiler{},
	})
	require.NoError(testInstance, creationError)

	_, dispatchError := service.Dispatch(context.Background(), rebuild.Options{})

	require.ErrorIs(testInstance, dispatchError, rebuild.ErrRepositoryPathRequired)
}
