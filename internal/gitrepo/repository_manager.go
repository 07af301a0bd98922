package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidycommit/tidycommit/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant        = "repository manager requires a git executor"
	repositoryRootErrorTemplateConstant         = "failed to resolve repository root: %w"
	currentBranchErrorTemplateConstant          = "failed to determine current branch: %w"
	stagedFilesErrorTemplateConstant            = "failed to list staged files: %w"
	stageErrorTemplateConstant                  = "failed to stage files: %w"
	commitErrorTemplateConstant                 = "failed to create commit: %w"
	pushErrorTemplateConstant                   = "failed to push to %s: %w"
	worktreeStatusErrorTemplateConstant         = "failed to collect worktree status: %w"
	whitespaceReportErrorTemplateConstant       = "failed to check for whitespace errors: %w"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitShowTopLevelFlagConstant                 = "--show-toplevel"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitDiffSubcommandConstant                   = "diff"
	gitDiffCheckFlagConstant                    = "--check"
	gitDiffNameOnlyFlagConstant                 = "--name-only"
	gitDiffCachedFlagConstant                   = "--cached"
	gitAddSubcommandConstant                    = "add"
	gitPathspecSeparatorConstant                = "--"
	gitCommitSubcommandConstant                 = "commit"
	gitMessageFlagConstant                      = "-m"
	gitPushSubcommandConstant                   = "push"
	gitStatusSubcommandConstant                 = "status"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	lineSeparatorConstant                       = "\n"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution the repository manager relies on.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// WhitespaceReport captures the outcome of the whitespace-error check.
type WhitespaceReport struct {
	Clean       bool
	Diagnostics string
}

// RepositoryManager performs repository-level git operations through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// RepositoryRoot resolves the top-level directory of the repository containing workingDirectory.
func (manager *RepositoryManager) RepositoryRoot(executionContext context.Context, workingDirectory string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", fmt.Errorf(repositoryRootErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CurrentBranch determines the short name of the branch checked out in the repository.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// WhitespaceReport runs the diff whitespace check over the unstaged working tree.
//
// A non-zero exit from the check itself is not an error; it marks the report
// dirty and surfaces the diagnostic output for the operator.
func (manager *RepositoryManager) WhitespaceReport(executionContext context.Context, repositoryPath string) (WhitespaceReport, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitDiffCheckFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return WhitespaceReport{Clean: false, Diagnostics: combinedOutput(failedError.Result)}, nil
		}
		return WhitespaceReport{}, fmt.Errorf(whitespaceReportErrorTemplateConstant, executionError)
	}

	diagnostics := combinedOutput(executionResult)
	return WhitespaceReport{Clean: len(strings.TrimSpace(diagnostics)) == 0, Diagnostics: diagnostics}, nil
}

// StageFiles stages exactly the provided paths, never a wildcard.
func (manager *RepositoryManager) StageFiles(executionContext context.Context, repositoryPath string, relativePaths []string) error {
	arguments := append([]string{gitAddSubcommandConstant, gitPathspecSeparatorConstant}, relativePaths...)
	_, executionError := manager.executor.ExecuteGit(executionContext, manager.withoutTerminalPrompts(execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	}))
	if executionError != nil {
		return fmt.Errorf(stageErrorTemplateConstant, executionError)
	}
	return nil
}

// StagedFiles lists the repository-relative names of all currently staged files.
func (manager *RepositoryManager) StagedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitDiffNameOnlyFlagConstant, gitDiffCachedFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, fmt.Errorf(stagedFilesErrorTemplateConstant, executionError)
	}

	stagedFiles := []string{}
	for _, candidate := range strings.Split(executionResult.StandardOutput, lineSeparatorConstant) {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		stagedFiles = append(stagedFiles, trimmed)
	}
	return stagedFiles, nil
}

// Commit records the current staging area with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, manager.withoutTerminalPrompts(execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitMessageFlagConstant, message},
		WorkingDirectory: repositoryPath,
	}))
	if executionError != nil {
		return fmt.Errorf(commitErrorTemplateConstant, executionError)
	}
	return nil
}

// Push publishes the branch to the named remote.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, manager.withoutTerminalPrompts(execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteName, branchName},
		WorkingDirectory: repositoryPath,
	}))
	if executionError != nil {
		return fmt.Errorf(pushErrorTemplateConstant, remoteName, executionError)
	}
	return nil
}

// WorktreeStatus collects the human-readable status summary of the working tree.
func (manager *RepositoryManager) WorktreeStatus(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(worktreeStatusErrorTemplateConstant, executionError)
	}
	return executionResult.StandardOutput, nil
}

func (manager *RepositoryManager) withoutTerminalPrompts(details execshell.CommandDetails) execshell.CommandDetails {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant] = gitTerminalPromptEnvironmentDisableConstant
	return details
}

func combinedOutput(result execshell.ExecutionResult) string {
	if len(strings.TrimSpace(result.StandardError)) == 0 {
		return result.StandardOutput
	}
	if len(strings.TrimSpace(result.StandardOutput)) == 0 {
		return result.StandardError
	}
	return result.StandardOutput + lineSeparatorConstant + result.StandardError
}
