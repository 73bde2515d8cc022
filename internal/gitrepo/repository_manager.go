package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/protoci/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant      = "git executor not configured"
	commitObjectTypeConstant               = "commit"
	gitRevParseSubcommandConstant          = "rev-parse"
	gitTopLevelFlagConstant                = "--show-toplevel"
	gitCatFileSubcommandConstant           = "cat-file"
	gitObjectTypeFlagConstant              = "-t"
	gitMergeBaseSubcommandConstant         = "merge-base"
	gitDiffSubcommandConstant              = "diff"
	gitNameOnlyFlagConstant                = "--name-only"
	gitLSFilesSubcommandConstant           = "ls-files"
	gitStatusSubcommandConstant            = "status"
	gitStatusPorcelainFlagConstant         = "--porcelain"
	gitPathspecSeparatorConstant           = "--"
	gitUntrackedStatusCodeConstant         = "??"
	gitTerminalPromptEnvironmentName       = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableVal = "0"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git queries through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager with the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ResolveTopLevelDirectory returns the top-level directory of the working tree enclosing workingDirectory.
func (manager *RepositoryManager) ResolveTopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, workingDirectory, gitRevParseSubcommandConstant, gitTopLevelFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// IsCommit reports whether the reference resolves to an object of type commit.
func (manager *RepositoryManager) IsCommit(executionContext context.Context, repositoryPath string, reference string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitCatFileSubcommandConstant, gitObjectTypeFlagConstant, reference)
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == commitObjectTypeConstant, nil
}

// ResolveCommitHash resolves the reference to a full commit hash.
func (manager *RepositoryManager) ResolveCommitHash(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, reference)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// MergeBase returns the nearest common ancestor commit of the two references.
func (manager *RepositoryManager) MergeBase(executionContext context.Context, repositoryPath string, firstReference string, secondReference string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, firstReference, secondReference)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ListChangedFiles returns the paths that differ between the base revision and the working tree.
func (manager *RepositoryManager) ListChangedFiles(executionContext context.Context, repositoryPath string, baseRevision string) ([]string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitDiffSubcommandConstant, gitNameOnlyFlagConstant, baseRevision)
	if executionError != nil {
		return nil, executionError
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// ListTrackedFiles enumerates tracked paths, optionally restricted to a pathspec.
func (manager *RepositoryManager) ListTrackedFiles(executionContext context.Context, repositoryPath string, pathspec string) ([]string, error) {
	arguments := []string{gitLSFilesSubcommandConstant}
	if len(strings.TrimSpace(pathspec)) > 0 {
		arguments = append(arguments, gitPathspecSeparatorConstant, pathspec)
	}
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, arguments...)
	if executionError != nil {
		return nil, executionError
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// ListUntrackedFiles returns untracked paths reported by git status underneath the provided subtree.
//
// Field splitting of the porcelain output is whitespace based; a path
// containing spaces surfaces as multiple fragments. The pass/fail signal is
// unaffected so the fragments are reported as-is.
func (manager *RepositoryManager) ListUntrackedFiles(executionContext context.Context, repositoryPath string, subtreePath string) ([]string, error) {
	arguments := []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant}
	if len(strings.TrimSpace(subtreePath)) > 0 {
		arguments = append(arguments, gitPathspecSeparatorConstant, subtreePath)
	}
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, arguments...)
	if executionError != nil {
		return nil, executionError
	}

	untrackedPaths := []string{}
	for _, statusLine := range splitOutputLines(executionResult.StandardOutput) {
		statusFields := strings.Fields(statusLine)
		if len(statusFields) < 2 {
			continue
		}
		if statusFields[0] != gitUntrackedStatusCodeConstant {
			continue
		}
		untrackedPaths = append(untrackedPaths, statusFields[1:]...)
	}
	return untrackedPaths, nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentName: gitTerminalPromptEnvironmentDisableVal,
		},
	})
}

func splitOutputLines(commandOutput string) []string {
	outputLines := []string{}
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		outputLines = append(outputLines, trimmedLine)
	}
	return outputLines
}
