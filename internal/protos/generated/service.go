package generated

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	untrackedFilesErrorTemplateConstant     = "failed to list untracked files under %q: %w"
	uncommittedArtifactsTemplateConstant    = "%d untracked generated file(s) under %s"
	errorMarkerConstant                     = "ERROR:"
	untrackedPathTemplateConstant           = "%s %s\n"
	auditPassedLogMessageConstant           = "No untracked generated files found"
	logFieldSubtreeConstant                 = "subtree"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// UncommittedArtifactsError reports untracked generated files left in the working tree.
type UncommittedArtifactsError struct {
	Subtree string
	Paths   []string
}

// Error describes the offending subtree and path count.
func (artifactsError UncommittedArtifactsError) Error() string {
	return fmt.Sprintf(uncommittedArtifactsTemplateConstant, len(artifactsError.Paths), artifactsError.Subtree)
}

// Dependencies enumerates external collaborators required for the audit.
type Dependencies struct {
	RepositoryManager shared.RepositoryManager
	Logger            *zap.Logger
	ErrorWriter       io.Writer
}

// Options configures a generated-file audit.
type Options struct {
	RepositoryPath string
	AuditSubtree   string
}

// Service scans a repository subtree for untracked generated files.
type Service struct {
	repositoryManager shared.RepositoryManager
	logger            *zap.Logger
	errorWriter       io.Writer
	errorMarkerColor  *color.Color
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
	errorWriter := dependencies.ErrorWriter
	if errorWriter == nil {
		errorWriter = os.Stderr
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		logger:            logger,
		errorWriter:       errorWriter,
		errorMarkerColor:  color.New(color.FgRed),
	}, nil
}

// Audit reports every untracked path under the audit subtree and fails when any exist.
func (service *Service) Audit(executionContext context.Context, options Options) error {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	auditSubtree := strings.TrimSpace(options.AuditSubtree)
	if len(auditSubtree) == 0 {
		auditSubtree = shared.DefaultAuditSubtreeConstant
	}

	untrackedPaths, untrackedError := service.repositoryManager.ListUntrackedFiles(executionContext, trimmedRepositoryPath, auditSubtree)
	if untrackedError != nil {
		return fmt.Errorf(untrackedFilesErrorTemplateConstant, auditSubtree, untrackedError)
	}

	if len(untrackedPaths) == 0 {
		service.logger.Info(auditPassedLogMessageConstant, zap.String(logFieldSubtreeConstant, auditSubtree))
		return nil
	}

	errorMarker := service.errorMarkerColor.Sprint(errorMarkerConstant)
	for _, untrackedPath := range untrackedPaths {
		fmt.Fprintf(service.errorWriter, untrackedPathTemplateConstant, errorMarker, untrackedPath)
	}

	return UncommittedArtifactsError{Subtree: auditSubtree, Paths: untrackedPaths}
}
