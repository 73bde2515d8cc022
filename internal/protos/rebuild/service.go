package rebuild

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/bazelcli"
	"github.com/temirov/protoci/internal/protoccli"
	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	protoBuilderMissingMessageConstant    = "proto builder not configured"
	protoCompilerMissingMessageConstant   = "proto compiler not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	protoTargetSuffixConstant             = "_proto"
	pythonBindingTargetSuffixConstant     = "_py_pb2"
	cppBindingTargetSuffixConstant        = "_cc_proto"
	buildTreeLogMessageConstant           = "Rebuilding targets under changed build description"
	buildTreeFailureLogMessageConstant    = "Build tree rebuild failed"
	protoTargetFailureLogMessageConstant  = "Proto target build failed"
	bindingsFailureLogMessageConstant     = "Binding regeneration failed"
	logFieldPrefixConstant                = "prefix"
	logFieldTargetConstant                = "target"
	logFieldProtoBaseConstant             = "proto_base"
)

// ErrProtoBuilderNotConfigured indicates the proto builder dependency was missing.
var ErrProtoBuilderNotConfigured = errors.New(protoBuilderMissingMessageConstant)

// ErrProtoCompilerNotConfigured indicates the proto compiler dependency was missing.
var ErrProtoCompilerNotConfigured = errors.New(protoCompilerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Dependencies enumerates external collaborators required for rebuild dispatch.
type Dependencies struct {
	ProtoBuilder  shared.ProtoBuilder
	ProtoCompiler shared.ProtoCompiler
	Logger        *zap.Logger
}

// Options configures a rebuild dispatch run.
type Options struct {
	RepositoryPath          string
	BuildPrefixes           []string
	ProtoBaseNames          []string
	BindingsOutputDirectory string
	StubsOutputDirectory    string
}

// Result counts attempted and failed rebuild invocations.
type Result struct {
	AttemptedBuilds      int
	FailedBuilds         int
	AttemptedGenerations int
	FailedGenerations    int
}

// Service dispatches build and regeneration work for changed protos.
type Service struct {
	protoBuilder  shared.ProtoBuilder
	protoCompiler shared.ProtoCompiler
	logger        *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.ProtoBuilder == nil {
		return nil, ErrProtoBuilderNotConfigured
	}
	if dependencies.ProtoCompiler == nil {
		return nil, ErrProtoCompilerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		protoBuilder:  dependencies.ProtoBuilder,
		protoCompiler: dependencies.ProtoCompiler,
		logger:        logger,
	}, nil
}

// Dispatch rebuilds changed build trees and proto targets and regenerates bindings.
//
// Individual tool failures are logged and counted but never returned;
// rebuilds are best effort and Bazel is assumed cache-aware across the
// duplicate targets the two loops can produce.
func (service *Service) Dispatch(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	result := Result{}

	for _, buildPrefix := range options.BuildPrefixes {
		service.logger.Info(buildTreeLogMessageConstant, zap.String(logFieldPrefixConstant, buildPrefix))
		targetPattern := bazelcli.TreeTargetPattern(buildPrefix)
		result.AttemptedBuilds++
		if buildError := service.protoBuilder.BuildTargets(executionContext, trimmedRepositoryPath, targetPattern); buildError != nil {
			result.FailedBuilds++
			service.logger.Error(
				buildTreeFailureLogMessageConstant,
				zap.String(logFieldPrefixConstant, buildPrefix),
				zap.Error(buildError),
			)
		}
	}

	for _, protoBaseName := range options.ProtoBaseNames {
		for _, targetSuffix := range []string{protoTargetSuffixConstant, pythonBindingTargetSuffixConstant, cppBindingTargetSuffixConstant} {
			targetName := protoBaseName + targetSuffix
			result.AttemptedBuilds++
			if buildError := service.protoBuilder.BuildTargets(executionContext, trimmedRepositoryPath, targetName); buildError != nil {
				result.FailedBuilds++
				service.logger.Error(
					protoTargetFailureLogMessageConstant,
					zap.String(logFieldTargetConstant, targetName),
					zap.Error(buildError),
				)
			}
		}

		result.AttemptedGenerations++
		generationRequest := protoccli.GenerationRequest{
			BindingsOutputDirectory: options.BindingsOutputDirectory,
			StubsOutputDirectory:    options.StubsOutputDirectory,
			SourceFile:              protoBaseName + shared.ProtoFileSuffixConstant,
		}
		if generationError := service.protoCompiler.GenerateBindings(executionContext, trimmedRepositoryPath, generationRequest); generationError != nil {
			result.FailedGenerations++
			service.logger.Error(
				bindingsFailureLogMessageConstant,
				zap.String(logFieldProtoBaseConstant, protoBaseName),
				zap.Error(generationError),
			)
		}
	}

	return result, nil
}
