package shared

import (
	"context"

	"github.com/temirov/protoci/internal/execshell"
	"github.com/temirov/protoci/internal/protoccli"
)

const (
	// HeadReferenceConstant names the current head revision.
	HeadReferenceConstant = "HEAD"
	// ProtoFileSuffixConstant is the filename suffix of protocol buffer definitions.
	ProtoFileSuffixConstant = ".proto"
	// BuildFileNameConstant is the filename of Bazel build descriptions.
	BuildFileNameConstant = "BUILD"
	// DefaultProtoDirectoryMarkerConstant identifies the subtree holding proto definitions.
	DefaultProtoDirectoryMarkerConstant = "google/api/"
	// DefaultAuditSubtreeConstant identifies the subtree audited for untracked generated files.
	DefaultAuditSubtreeConstant = "cirq/google"
)

// CommandExecutor exposes the shell commands used by pipeline services.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteBazel(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteProtoc(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager exposes the repository-level git queries used by pipeline services.
type RepositoryManager interface {
	ResolveTopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error)
	IsCommit(executionContext context.Context, repositoryPath string, reference string) (bool, error)
	ResolveCommitHash(executionContext context.Context, repositoryPath string, reference string) (string, error)
	MergeBase(executionContext context.Context, repositoryPath string, firstReference string, secondReference string) (string, error)
	ListChangedFiles(executionContext context.Context, repositoryPath string, baseRevision string) ([]string, error)
	ListTrackedFiles(executionContext context.Context, repositoryPath string, pathspec string) ([]string, error)
	ListUntrackedFiles(executionContext context.Context, repositoryPath string, subtreePath string) ([]string, error)
}

// ProtoBuilder builds Bazel targets derived from changed proto and BUILD paths.
type ProtoBuilder interface {
	BuildTargets(executionContext context.Context, workingDirectory string, targetPattern string) error
}

// ProtoCompiler regenerates language bindings for a proto definition.
type ProtoCompiler interface {
	GenerateBindings(executionContext context.Context, workingDirectory string, request protoccli.GenerationRequest) error
}
