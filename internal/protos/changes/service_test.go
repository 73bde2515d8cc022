package changes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/protoci/internal/protos/changes"
)

const (
	repositoryPathConstant        = "/workspace/project"
	baseRevisionConstant          = "origin/master"
	changedProtoPathConstant      = "a/b/google/api/foo.proto"
	changedProtoBaseConstant      = "a/b/google/api/foo"
	changedBuildPathConstant      = "a/b/google/api/BUR/BUILD"
	changedBuildPrefixConstant    = "a/b/google/api/BUR/"
	unrelatedChangedPathConstant  = "docs/readme.md"
	unrelatedProtoPathConstant    = "other/protos/x.proto"
	trackedProtoPathConstant      = "cirq/google/api/v2/program.proto"
	noBuildChangesMessageConstant = "No BUILD files changed."
	changedBuildMessageConstant   = "Detected changed build description"
	buildPrefixLogFieldConstant   = "build_prefix"
	expectedTrackedPathspec       = "*.proto"
)

type stubRepositoryManager struct {
	changedFiles     []string
	trackedFiles     []string
	trackedPathspecs []string
	diffRevisions    []string
}

func (manager *stubRepositoryManager) ResolveTopLevelDirectory(_ context.Context, _ string) (string, error) {
	return repositoryPathConstant, nil
}

func (manager *stubRepositoryManager) IsCommit(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

func (manager *stubRepositoryManager) ResolveCommitHash(_ context.Context, _ string, reference string) (string, error) {
	return reference, nil
}

func (manager *stubRepositoryManager) MergeBase(_ context.Context, _ string, firstReference string, _ string) (string, error) {
	return firstReference, nil
}

func (manager *stubRepositoryManager) ListChangedFiles(_ context.Context, _ string, baseRevision string) ([]string, error) {
	manager.diffRevisions = append(manager.diffRevisions, baseRevision)
	return manager.changedFiles, nil
}

func (manager *stubRepositoryManager) ListTrackedFiles(_ context.Context, _ string, pathspec string) ([]string, error) {
	manager.trackedPathspecs = append(manager.trackedPathspecs, pathspec)
	return manager.trackedFiles, nil
}

func (manager *stubRepositoryManager) ListUntrackedFiles(_ context.Context, _ string, _ string) ([]string, error) {
	return nil, nil
}

func TestNewServiceValidation(testInstance *testing.T) {
	service, creationError := changes.NewService(changes.Dependencies{Logger: zap.NewNop()})

	require.ErrorIs(testInstance, creationError, changes.ErrRepositoryManagerNotConfigured)
	require.Nil(testInstance, service)
}

func TestServiceDetect(testInstance *testing.T) {
	testCases := []struct {
		name                   string
		manager                *stubRepositoryManager
		options                changes.Options
		expectedResult         changes.Result
		expectedError          error
		expectNoBuildChangeLog bool
		expectedBuildLogValues []string
	}{
		{
			name: "derives_targets_from_changed_paths",
			manager: &stubRepositoryManager{
				changedFiles: []string{
					changedProtoPathConstant,
					changedBuildPathConstant,
					unrelatedChangedPathConstant,
					unrelatedProtoPathConstant,
				},
				trackedFiles: []string{trackedProtoPathConstant, unrelatedProtoPathConstant},
			},
			options: changes.Options{
				RepositoryPath: repositoryPathConstant,
				BaseRevision:   baseRevisionConstant,
			},
			expectedResult: changes.Result{
				ProtoBaseNames:    []string{changedProtoBaseConstant},
				BuildPrefixes:     []string{changedBuildPrefixConstant},
				TrackedProtoFiles: []string{trackedProtoPathConstant},
			},
			expectedBuildLogValues: []string{changedBuildPrefixConstant},
		},
		{
			name: "logs_when_no_build_files_changed",
			manager: &stubRepositoryManager{
				changedFiles: []string{changedProtoPathConstant},
			},
			options: changes.Options{
				RepositoryPath: repositoryPathConstant,
				BaseRevision:   baseRevisionConstant,
			},
			expectedResult: changes.Result{
				ProtoBaseNames:    []string{changedProtoBaseConstant},
				BuildPrefixes:     []string{},
				TrackedProtoFiles: []string{},
			},
			expectNoBuildChangeLog: true,
		},
		{
			name:    "missing_repository_path",
			manager: &stubRepositoryManager{},
			options: changes.Options{
				BaseRevision: baseRevisionConstant,
			},
			expectedError: changes.ErrRepositoryPathRequired,
		},
		{
			name:    "missing_base_revision",
			manager: &stubRepositoryManager{},
			options: changes.Options{
				RepositoryPath: repositoryPathConstant,
			},
			expectedError: changes.ErrBaseRevisionRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			observedCore, observedLogs := observer.New(zap.InfoLevel)
			service, creationError := changes.NewService(changes.Dependencies{
				RepositoryManager: testCase.manager,
				Logger:            zap.New(observedCore),
			})
			require.NoError(subtest, creationError)

			result, detectionError := service.Detect(context.Background(), testCase.options)

			if testCase.expectedError != nil {
				require.ErrorIs(subtest, detectionError, testCase.expectedError)
				return
			}

			require.NoError(subtest, detectionError)
			require.Equal(subtest, testCase.expectedResult, result)
			require.Equal(subtest, []string{expectedTrackedPathspec}, testCase.manager.trackedPathspecs)
			require.Equal(subtest, []string{baseRevisionConstant}, testCase.manager.diffRevisions)

			noBuildChangeLogged := false
			loggedBuildPrefixes := []string{}
			for _, logEntry := range observedLogs.All() {
				if logEntry.Message == noBuildChangesMessageConstant {
					noBuildChangeLogged = true
				}
				if logEntry.Message == changedBuildMessageConstant {
					loggedBuildPrefixes = append(loggedBuildPrefixes, logEntry.ContextMap()[buildPrefixLogFieldConstant].(string))
				}
			}
			require.Equal(subtest, testCase.expectNoBuildChangeLog, noBuildChangeLogged)
			if testCase.expectedBuildLogValues == nil {
				require.Empty(subtest, loggedBuildPrefixes)
			} else {
				require.Equal(subtest, testCase.expectedBuildLogValues, loggedBuildPrefixes)
			}
		})
	}
}
