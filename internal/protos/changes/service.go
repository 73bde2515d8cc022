package changes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	baseRevisionRequiredMessageConstant     = "base revision must be provided"
	changedFilesErrorTemplateConstant       = "failed to list files changed since %q: %w"
	trackedFilesErrorTemplateConstant       = "failed to list tracked proto files: %w"
	trackedProtoPathspecConstant            = "*" + shared.ProtoFileSuffixConstant
	changedProtoLogMessageConstant          = "Detected changed proto definition"
	changedBuildLogMessageConstant          = "Detected changed build description"
	noBuildChangesLogMessageConstant        = "No BUILD files changed."
	logFieldProtoBaseConstant               = "proto_base"
	logFieldBuildPrefixConstant             = "build_prefix"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBaseRevisionRequired indicates the base revision option was empty.
var ErrBaseRevisionRequired = errors.New(baseRevisionRequiredMessageConstant)

// Dependencies enumerates external collaborators required for change detection.
type Dependencies struct {
	RepositoryManager shared.RepositoryManager
	Logger            *zap.Logger
}

// Options configures a change detection run.
type Options struct {
	RepositoryPath       string
	BaseRevision         string
	ProtoDirectoryMarker string
}

// Result captures the changed target identifiers derived from the diff.
type Result struct {
	ProtoBaseNames    []string
	BuildPrefixes     []string
	TrackedProtoFiles []string
}

// Service derives rebuild targets from the diff against a base revision.
type Service struct {
	repositoryManager shared.RepositoryManager
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repositoryManager: dependencies.RepositoryManager, logger: logger}, nil
}

// Detect lists changed proto base names and changed build description prefixes.
func (service *Service) Detect(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	trimmedBaseRevision := strings.TrimSpace(options.BaseRevision)
	if len(trimmedBaseRevision) == 0 {
		return Result{}, ErrBaseRevisionRequired
	}
	protoDirectoryMarker := strings.TrimSpace(options.ProtoDirectoryMarker)
	if len(protoDirectoryMarker) == 0 {
		protoDirectoryMarker = shared.DefaultProtoDirectoryMarkerConstant
	}

	trackedFiles, trackedError := service.repositoryManager.ListTrackedFiles(executionContext, trimmedRepositoryPath, trackedProtoPathspecConstant)
	if trackedError != nil {
		return Result{}, fmt.Errorf(trackedFilesErrorTemplateConstant, trackedError)
	}

	trackedProtoFiles := make([]string, 0, len(trackedFiles))
	for _, trackedFile := range trackedFiles {
		if isProtoPath(trackedFile, protoDirectoryMarker) {
			trackedProtoFiles = append(trackedProtoFiles, trackedFile)
		}
	}

	changedFiles, changedError := service.repositoryManager.ListChangedFiles(executionContext, trimmedRepositoryPath, trimmedBaseRevision)
	if changedError != nil {
		return Result{}, fmt.Errorf(changedFilesErrorTemplateConstant, trimmedBaseRevision, changedError)
	}

	protoBaseNames := make([]string, 0, len(changedFiles))
	buildPrefixes := make([]string, 0, len(changedFiles))
	for _, changedFile := range changedFiles {
		if isProtoPath(changedFile, protoDirectoryMarker) {
			protoBaseName := strings.TrimSuffix(changedFile, shared.ProtoFileSuffixConstant)
			service.logger.Info(changedProtoLogMessageConstant, zap.String(logFieldProtoBaseConstant, protoBaseName))
			protoBaseNames = append(protoBaseNames, protoBaseName)
			continue
		}
		if isBuildDescriptionPath(changedFile, protoDirectoryMarker) {
			buildPrefix := strings.TrimSuffix(changedFile, shared.BuildFileNameConstant)
			service.logger.Info(changedBuildLogMessageConstant, zap.String(logFieldBuildPrefixConstant, buildPrefix))
			buildPrefixes = append(buildPrefixes, buildPrefix)
		}
	}

	if len(buildPrefixes) == 0 {
		service.logger.Info(noBuildChangesLogMessageConstant)
	}

	return Result{
		ProtoBaseNames:    protoBaseNames,
		BuildPrefixes:     buildPrefixes,
		TrackedProtoFiles: trackedProtoFiles,
	}, nil
}

func isProtoPath(candidatePath string, protoDirectoryMarker string) bool {
	return strings.HasSuffix(candidatePath, shared.ProtoFileSuffixConstant) &&
		strings.Contains(candidatePath, protoDirectoryMarker)
}

func isBuildDescriptionPath(candidatePath string, protoDirectoryMarker string) bool {
	return strings.HasSuffix(candidatePath, shared.BuildFileNameConstant) &&
		strings.Contains(candidatePath, protoDirectoryMarker)
}
