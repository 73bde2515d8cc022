package revision

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
	invalidRevisionTemplateConstant         = "invalid revision: %s"
	noDefaultRevisionTemplateConstant       = "no default revision found among: %s"
	defaultRevisionCandidatesJoinConstant   = ", "
	flagPrefixConstant                      = "-"
	commitCheckErrorTemplateConstant        = "failed to check revision %q: %w"
	commitHashErrorTemplateConstant         = "failed to resolve revision %q: %w"
	mergeBaseErrorTemplateConstant          = "failed to compute merge base for %q: %w"
	ancestorChoiceLogMessageConstant        = "comparing against revision"
	mergeBaseChoiceLogMessageConstant       = "revision is not an ancestor of HEAD, comparing against merge base"
	logFieldRevisionConstant                = "revision"
	logFieldMergeBaseConstant               = "merge_base"
)

// DefaultFallbackRevisions lists the references tried when no revision argument is supplied.
var DefaultFallbackRevisions = []string{"upstream/master", "origin/master", "master"}

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// InvalidRevisionError reports an explicit argument that does not name a commit.
type InvalidRevisionError struct {
	Reference string
}

// Error describes the invalid revision.
func (invalidError InvalidRevisionError) Error() string {
	return fmt.Sprintf(invalidRevisionTemplateConstant, invalidError.Reference)
}

// NoDefaultRevisionError reports that none of the fallback references resolved to a commit.
type NoDefaultRevisionError struct {
	Candidates []string
}

// Error describes the exhausted fallback chain.
func (noDefaultError NoDefaultRevisionError) Error() string {
	return fmt.Sprintf(noDefaultRevisionTemplateConstant, strings.Join(noDefaultError.Candidates, defaultRevisionCandidatesJoinConstant))
}

// Dependencies enumerates external collaborators required for revision resolution.
type Dependencies struct {
	RepositoryManager shared.RepositoryManager
	Logger            *zap.Logger
}

// Options configures a base revision resolution.
type Options struct {
	RepositoryPath    string
	RequestedRevision string
	FallbackRevisions []string
}

// Result captures the outcome of a base revision resolution.
type Result struct {
	Candidate         string
	EffectiveRevision string
	UsedMergeBase     bool
}

// Service resolves the base revision used for change detection.
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

// Resolve produces the effective comparison revision for the supplied options.
func (service *Service) Resolve(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	candidate, selectionError := service.selectCandidate(executionContext, trimmedRepositoryPath, options)
	if selectionError != nil {
		return Result{}, selectionError
	}

	candidateHash, hashError := service.repositoryManager.ResolveCommitHash(executionContext, trimmedRepositoryPath, candidate)
	if hashError != nil {
		return Result{}, fmt.Errorf(commitHashErrorTemplateConstant, candidate, hashError)
	}

	mergeBaseHash, mergeBaseError := service.repositoryManager.MergeBase(executionContext, trimmedRepositoryPath, candidate, shared.HeadReferenceConstant)
	if mergeBaseError != nil {
		return Result{}, fmt.Errorf(mergeBaseErrorTemplateConstant, candidate, mergeBaseError)
	}

	if candidateHash == mergeBaseHash {
		service.logger.Info(ancestorChoiceLogMessageConstant, zap.String(logFieldRevisionConstant, candidate))
		return Result{Candidate: candidate, EffectiveRevision: candidate}, nil
	}

	service.logger.Info(
		mergeBaseChoiceLogMessageConstant,
		zap.String(logFieldRevisionConstant, candidate),
		zap.String(logFieldMergeBaseConstant, mergeBaseHash),
	)
	return Result{Candidate: candidate, EffectiveRevision: mergeBaseHash, UsedMergeBase: true}, nil
}

func (service *Service) selectCandidate(executionContext context.Context, repositoryPath string, options Options) (string, error) {
	requestedRevision := strings.TrimSpace(options.RequestedRevision)
	if len(requestedRevision) > 0 && !strings.HasPrefix(requestedRevision, flagPrefixConstant) {
		isCommit, checkError := service.repositoryManager.IsCommit(executionContext, repositoryPath, requestedRevision)
		if checkError != nil {
			return "", fmt.Errorf(commitCheckErrorTemplateConstant, requestedRevision, checkError)
		}
		if !isCommit {
			return "", InvalidRevisionError{Reference: requestedRevision}
		}
		return requestedRevision, nil
	}

	fallbackRevisions := options.FallbackRevisions
	if len(fallbackRevisions) == 0 {
		fallbackRevisions = DefaultFallbackRevisions
	}

	for _, fallbackRevision := range fallbackRevisions {
		trimmedFallback := strings.TrimSpace(fallbackRevision)
		if len(trimmedFallback) == 0 {
			continue
		}
		isCommit, checkError := service.repositoryManager.IsCommit(executionContext, repositoryPath, trimmedFallback)
		if checkError != nil {
			return "", fmt.Errorf(commitCheckErrorTemplateConstant, trimmedFallback, checkError)
		}
		if isCommit {
			return trimmedFallback, nil
		}
	}

	return "", NoDefaultRevisionError{Candidates: fallbackRevisions}
}
