package commitpush_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidycommit/tidycommit/internal/commitpush"
	"github.com/tidycommit/tidycommit/internal/gitrepo"
)

const (
	testRepositoryRootConstant   = "/tmp/project"
	testWorkingDirectoryConstant = "/tmp/project/src"
	testBranchNameConstant       = "main"
	testRemoteNameConstant       = "origin"
	testCommitMessageConstant    = "Adjust configuration parsing"
)

type stubRepositoryGateway struct {
	repositoryRoot    string
	repositoryError   error
	branchName        string
	branchError       error
	whitespaceReport  gitrepo.WhitespaceReport
	whitespaceError   error
	stagedFiles       []string
	stagedError       error
	worktreeStatus    string
	stageError        error
	commitError       error
	pushError         error
	stagedPaths       []string
	committedMessages []string
	pushedRemotes     []string
	pushedBranches    []string
}

func (gateway *stubRepositoryGateway) RepositoryRoot(_ context.Context, _ string) (string, error) {
	return gateway.repositoryRoot, gateway.repositoryError
}

func (gateway *stubRepositoryGateway) CurrentBranch(_ context.Context, _ string) (string, error) {
	return gateway.branchName, gateway.branchError
}

func (gateway *stubRepositoryGateway) WhitespaceReport(_ context.Context, _ string) (gitrepo.WhitespaceReport, error) {
	return gateway.whitespaceReport, gateway.whitespaceError
}

func (gateway *stubRepositoryGateway) StageFiles(_ context.Context, _ string, relativePaths []string) error {
	gateway.stagedPaths = append(gateway.stagedPaths, relativePaths...)
	return gateway.stageError
}

func (gateway *stubRepositoryGateway) StagedFiles(_ context.Context, _ string) ([]string, error) {
	return gateway.stagedFiles, gateway.stagedError
}

func (gateway *stubRepositoryGateway) Commit(_ context.Context, _ string, message string) error {
	if gateway.commitError != nil {
		return gateway.commitError
	}
	gateway.committedMessages = append(gateway.committedMessages, message)
	return nil
}

func (gateway *stubRepositoryGateway) Push(_ context.Context, _ string, remoteName string, branchName string) error {
	if gateway.pushError != nil {
		return gateway.pushError
	}
	gateway.pushedRemotes = append(gateway.pushedRemotes, remoteName)
	gateway.pushedBranches = append(gateway.pushedBranches, branchName)
	return nil
}

func (gateway *stubRepositoryGateway) WorktreeStatus(_ context.Context, _ string) (string, error) {
	return gateway.worktreeStatus, nil
}

type stubFileNormalizer struct {
	normalizedFiles    []string
	normalizationError error
	receivedRoot       string
	receivedPaths      []string
}

func (normalizer *stubFileNormalizer) Normalize(rootDirectory string, relativePaths []string) ([]string, error) {
	normalizer.receivedRoot = rootDirectory
	normalizer.receivedPaths = relativePaths
	return normalizer.normalizedFiles, normalizer.normalizationError
}

func defaultTestOptions() commitpush.Options {
	return commitpush.Options{
		WorkingDirectory:  testWorkingDirectoryConstant,
		Files:             []string{"src/config.ts", "src/main.ts"},
		ForbiddenPrefixes: []string{".env", "server/data/"},
		CommitMessage:     testCommitMessageConstant,
		RemoteName:        testRemoteNameConstant,
	}
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	testCases := []struct {
		name          string
		dependencies  commitpush.Dependencies
		expectedError error
	}{
		{
			name:          "missing_repository_gateway",
			dependencies:  commitpush.Dependencies{FileNormalizer: normalizer, Output: output},
			expectedError: commitpush.ErrRepositoryGatewayNotConfigured,
		},
		{
			name:          "missing_file_normalizer",
			dependencies:  commitpush.Dependencies{RepositoryGateway: gateway, Output: output},
			expectedError: commitpush.ErrFileNormalizerNotConfigured,
		},
		{
			name:          "missing_output",
			dependencies:  commitpush.Dependencies{RepositoryGateway: gateway, FileNormalizer: normalizer},
			expectedError: commitpush.ErrOutputNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := commitpush.NewService(testCase.dependencies)
			require.Nil(testInstance, service)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}

func TestServiceRunPerformsFullWorkflow(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		branchName:       testBranchNameConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
		stagedFiles:      []string{"src/config.ts"},
	}
	normalizer := &stubFileNormalizer{normalizedFiles: []string{"src/config.ts"}}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	runResult, runError := service.Run(context.Background(), defaultTestOptions())
	require.NoError(testInstance, runError)

	require.Equal(testInstance, testRepositoryRootConstant, runResult.RepositoryRoot)
	require.Equal(testInstance, []string{"src/config.ts"}, runResult.NormalizedFiles)
	require.Equal(testInstance, testBranchNameConstant, runResult.BranchName)
	require.True(testInstance, runResult.Committed)
	require.True(testInstance, runResult.Pushed)

	require.Equal(testInstance, testRepositoryRootConstant, normalizer.receivedRoot)
	require.Equal(testInstance, []string{"src/config.ts", "src/main.ts"}, gateway.stagedPaths)
	require.Equal(testInstance, []string{testCommitMessageConstant}, gateway.committedMessages)
	require.Equal(testInstance, []string{testRemoteNameConstant}, gateway.pushedRemotes)
	require.Equal(testInstance, []string{testBranchNameConstant}, gateway.pushedBranches)

	require.Contains(testInstance, output.String(), "Repo: "+testRepositoryRootConstant)
	require.Contains(testInstance, output.String(), "Normalized: src/config.ts")
	require.Contains(testInstance, output.String(), "Done.")
}

func TestServiceRunRejectsForbiddenConfiguredFiles(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{repositoryRoot: testRepositoryRootConstant}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	options := defaultTestOptions()
	options.Files = []string{".env.production", "src/main.ts"}

	_, runError := service.Run(context.Background(), options)
	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), ".env.production")
	require.Nil(testInstance, normalizer.receivedPaths)
	require.Empty(testInstance, gateway.stagedPaths)
}

func TestServiceRunStopsOnWhitespaceErrors(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: false, Diagnostics: "src/main.ts:4: trailing whitespace."},
	}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	_, runError := service.Run(context.Background(), defaultTestOptions())

	exitStatusError := commitpush.ExitStatusError{}
	require.ErrorAs(testInstance, runError, &exitStatusError)
	require.Equal(testInstance, commitpush.ExitStatusWhitespaceErrorsConstant, exitStatusError.ExitStatus)
	require.Contains(testInstance, output.String(), "trailing whitespace")
	require.Empty(testInstance, gateway.stagedPaths)
}

func TestServiceRunRejectsForbiddenStagedFiles(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
		stagedFiles:      []string{"src/config.ts", "server/data/records.json"},
	}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	_, runError := service.Run(context.Background(), defaultTestOptions())

	exitStatusError := commitpush.ExitStatusError{}
	require.ErrorAs(testInstance, runError, &exitStatusError)
	require.Equal(testInstance, commitpush.ExitStatusForbiddenStagedConstant, exitStatusError.ExitStatus)
	require.Contains(testInstance, output.String(), "ERROR: forbidden files are staged:")
	require.Contains(testInstance, output.String(), " - server/data/records.json")
	require.Contains(testInstance, output.String(), "git reset HEAD -- <file>")
	require.Empty(testInstance, gateway.committedMessages)
}

func TestServiceRunReportsNothingToCommit(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
		stagedFiles:      nil,
	}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	runResult, runError := service.Run(context.Background(), defaultTestOptions())
	require.NoError(testInstance, runError)
	require.False(testInstance, runResult.Committed)
	require.False(testInstance, runResult.Pushed)
	require.Contains(testInstance, output.String(), "Nothing to commit (no staged changes).")
}

func TestServiceRunDryRunSkipsCommitAndPush(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
		stagedFiles:      []string{"src/config.ts"},
		worktreeStatus:   "On branch main\nChanges to be committed:\n  modified: src/config.ts\n",
	}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	options := defaultTestOptions()
	options.DryRun = true

	runResult, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)
	require.False(testInstance, runResult.Committed)
	require.False(testInstance, runResult.Pushed)
	require.Contains(testInstance, output.String(), "DRY RUN: would commit and push now.")
	require.Contains(testInstance, output.String(), "Changes to be committed:")
	require.Empty(testInstance, gateway.committedMessages)
	require.Empty(testInstance, gateway.pushedRemotes)
}

func TestServiceRunRejectsEmptyCommitMessage(testInstance *testing.T) {
	gateway := &stubRepositoryGateway{
		repositoryRoot:   testRepositoryRootConstant,
		whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
		stagedFiles:      []string{"src/config.ts"},
	}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	options := defaultTestOptions()
	options.CommitMessage = "   \n\t"

	_, runError := service.Run(context.Background(), options)

	exitStatusError := commitpush.ExitStatusError{}
	require.ErrorAs(testInstance, runError, &exitStatusError)
	require.Equal(testInstance, commitpush.ExitStatusEmptyCommitMessageConstant, exitStatusError.ExitStatus)
	require.Empty(testInstance, gateway.committedMessages)
}

func TestServiceRunRejectsUndeterminedBranch(testInstance *testing.T) {
	testCases := []struct {
		name       string
		branchName string
	}{
		{name: "empty_branch", branchName: ""},
		{name: "detached_head", branchName: "HEAD"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gateway := &stubRepositoryGateway{
				repositoryRoot:   testRepositoryRootConstant,
				branchName:       testCase.branchName,
				whitespaceReport: gitrepo.WhitespaceReport{Clean: true},
				stagedFiles:      []string{"src/config.ts"},
			}
			normalizer := &stubFileNormalizer{}
			output := &bytes.Buffer{}

			service, creationError := commitpush.NewService(commitpush.Dependencies{
				RepositoryGateway: gateway,
				FileNormalizer:    normalizer,
				Output:            output,
			})
			require.NoError(testInstance, creationError)

			_, runError := service.Run(context.Background(), defaultTestOptions())

			exitStatusError := commitpush.ExitStatusError{}
			require.ErrorAs(testInstance, runError, &exitStatusError)
			require.Equal(testInstance, commitpush.ExitStatusBranchUndeterminedConstant, exitStatusError.ExitStatus)
			require.Empty(testInstance, gateway.pushedRemotes)
		})
	}
}

func TestServiceRunPropagatesGatewayFailures(testInstance *testing.T) {
	gatewayFailure := errors.New("fatal: not a git repository")
	gateway := &stubRepositoryGateway{repositoryError: gatewayFailure}
	normalizer := &stubFileNormalizer{}
	output := &bytes.Buffer{}

	service, creationError := commitpush.NewService(commitpush.Dependencies{
		RepositoryGateway: gateway,
		FileNormalizer:    normalizer,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	_, runError := service.Run(context.Background(), defaultTestOptions())
	require.ErrorIs(testInstance, runError, gatewayFailure)
}
