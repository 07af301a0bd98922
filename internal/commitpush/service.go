package commitpush

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidycommit/tidycommit/internal/gitrepo"
)

const (
	serviceLoggerRequiredMessageConstant     = "commitpush: repository gateway not configured"
	serviceNormalizerRequiredMessageConstant = "commitpush: file normalizer not configured"
	serviceOutputRequiredMessageConstant     = "commitpush: output writer not configured"

	repositoryRootMessageTemplateConstant     = "Repo: %s\n"
	normalizedFilesMessageTemplateConstant    = "Normalized: %s\n"
	noNormalizationChangesMessageConstant     = "No normalization changes needed.\n"
	whitespaceHintMessageConstant             = "Fix the issues above, then re-run.\n"
	whitespaceFailureMessageConstant          = "whitespace errors detected by the diff check"
	nothingToCommitMessageConstant            = "Nothing to commit (no staged changes).\n"
	forbiddenHeaderMessageConstant            = "ERROR: forbidden files are staged:\n"
	forbiddenEntryMessageTemplateConstant     = " - %s\n"
	forbiddenFooterMessageConstant            = "Aborting. Run: git reset HEAD -- <file>\n"
	forbiddenStagedMessageConstant            = "Forbidden files staged; aborting before commit."
	emptyCommitMessageMessageConstant         = "empty commit message; use -m to supply one"
	branchUndeterminedMessageConstant         = "could not determine current branch"
	dryRunMessageConstant                     = "DRY RUN: would commit and push now.\n"
	completionMessageConstant                 = "Done.\n"
	forbiddenConfiguredTemplateConstant       = "configured file list contains forbidden paths: %s"
	normalizedFileSeparatorConstant           = ", "
	detachedHeadBranchNameConstant            = "HEAD"
)

var (
	// ErrRepositoryGatewayNotConfigured indicates the service was constructed without a repository gateway.
	ErrRepositoryGatewayNotConfigured = errors.New(serviceLoggerRequiredMessageConstant)
	// ErrFileNormalizerNotConfigured indicates the service was constructed without a file normalizer.
	ErrFileNormalizerNotConfigured = errors.New(serviceNormalizerRequiredMessageConstant)
	// ErrOutputNotConfigured indicates the service was constructed without an output writer.
	ErrOutputNotConfigured = errors.New(serviceOutputRequiredMessageConstant)
)

// RepositoryGateway describes the git operations the commit-push workflow performs.
type RepositoryGateway interface {
	RepositoryRoot(executionContext context.Context, workingDirectory string) (string, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	WhitespaceReport(executionContext context.Context, repositoryPath string) (gitrepo.WhitespaceReport, error)
	StageFiles(executionContext context.Context, repositoryPath string, relativePaths []string) error
	StagedFiles(executionContext context.Context, repositoryPath string) ([]string, error)
	Commit(executionContext context.Context, repositoryPath string, message string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	WorktreeStatus(executionContext context.Context, repositoryPath string) (string, error)
}

// FileNormalizer rewrites files into canonical whitespace form and reports which files changed.
type FileNormalizer interface {
	Normalize(rootDirectory string, relativePaths []string) ([]string, error)
}

// Options captures the parameters for a single commit-push run.
type Options struct {
	WorkingDirectory  string
	Files             []string
	ForbiddenPrefixes []string
	CommitMessage     string
	RemoteName        string
	DryRun            bool
}

// Result reports what a commit-push run accomplished.
type Result struct {
	RepositoryRoot  string
	NormalizedFiles []string
	StagedFiles     []string
	BranchName      string
	Committed       bool
	Pushed          bool
	DryRun          bool
}

// Dependencies bundles the collaborators required by the service.
type Dependencies struct {
	RepositoryGateway RepositoryGateway
	FileNormalizer    FileNormalizer
	Output            io.Writer
}

// Service orchestrates the normalize, stage, validate, commit, and push workflow.
type Service struct {
	repositoryGateway RepositoryGateway
	fileNormalizer    FileNormalizer
	output            io.Writer
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryGateway == nil {
		return nil, ErrRepositoryGatewayNotConfigured
	}
	if dependencies.FileNormalizer == nil {
		return nil, ErrFileNormalizerNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputNotConfigured
	}
	return &Service{
		repositoryGateway: dependencies.RepositoryGateway,
		fileNormalizer:    dependencies.FileNormalizer,
		output:            dependencies.Output,
	}, nil
}

// Run executes the commit-push workflow and returns a summary of what happened.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	runResult := Result{DryRun: options.DryRun}

	repositoryRoot, rootError := service.repositoryGateway.RepositoryRoot(executionContext, options.WorkingDirectory)
	if rootError != nil {
		return runResult, rootError
	}
	runResult.RepositoryRoot = repositoryRoot
	fmt.Fprintf(service.output, repositoryRootMessageTemplateConstant, repositoryRoot)

	forbiddenConfigured := filterForbidden(options.Files, options.ForbiddenPrefixes)
	if len(forbiddenConfigured) > 0 {
		return runResult, fmt.Errorf(forbiddenConfiguredTemplateConstant, strings.Join(forbiddenConfigured, normalizedFileSeparatorConstant))
	}

	normalizedFiles, normalizationError := service.fileNormalizer.Normalize(repositoryRoot, options.Files)
	if normalizationError != nil {
		return runResult, normalizationError
	}
	runResult.NormalizedFiles = normalizedFiles
	if len(normalizedFiles) > 0 {
		fmt.Fprintf(service.output, normalizedFilesMessageTemplateConstant, strings.Join(normalizedFiles, normalizedFileSeparatorConstant))
	} else {
		fmt.Fprint(service.output, noNormalizationChangesMessageConstant)
	}

	whitespaceReport, whitespaceError := service.repositoryGateway.WhitespaceReport(executionContext, repositoryRoot)
	if whitespaceError != nil {
		return runResult, whitespaceError
	}
	if !whitespaceReport.Clean {
		if len(whitespaceReport.Diagnostics) > 0 {
			fmt.Fprintln(service.output, strings.TrimRight(whitespaceReport.Diagnostics, "\n"))
		}
		fmt.Fprint(service.output, whitespaceHintMessageConstant)
		return runResult, ExitStatusError{ExitStatus: ExitStatusWhitespaceErrorsConstant, Message: whitespaceFailureMessageConstant}
	}

	if len(options.Files) > 0 {
		stagingError := service.repositoryGateway.StageFiles(executionContext, repositoryRoot, options.Files)
		if stagingError != nil {
			return runResult, stagingError
		}
	}

	stagedFiles, stagedListError := service.repositoryGateway.StagedFiles(executionContext, repositoryRoot)
	if stagedListError != nil {
		return runResult, stagedListError
	}
	runResult.StagedFiles = stagedFiles

	forbiddenFiles := filterForbidden(stagedFiles, options.ForbiddenPrefixes)
	if len(forbiddenFiles) > 0 {
		fmt.Fprint(service.output, forbiddenHeaderMessageConstant)
		for _, forbiddenFile := range forbiddenFiles {
			fmt.Fprintf(service.output, forbiddenEntryMessageTemplateConstant, forbiddenFile)
		}
		fmt.Fprint(service.output, forbiddenFooterMessageConstant)
		return runResult, ExitStatusError{ExitStatus: ExitStatusForbiddenStagedConstant, Message: forbiddenStagedMessageConstant}
	}

	if len(stagedFiles) == 0 {
		fmt.Fprint(service.output, nothingToCommitMessageConstant)
		return runResult, nil
	}

	if options.DryRun {
		fmt.Fprint(service.output, dryRunMessageConstant)
		worktreeStatus, statusError := service.repositoryGateway.WorktreeStatus(executionContext, repositoryRoot)
		if statusError != nil {
			return runResult, statusError
		}
		if len(strings.TrimSpace(worktreeStatus)) > 0 {
			fmt.Fprintln(service.output, strings.TrimRight(worktreeStatus, "\n"))
		}
		return runResult, nil
	}

	commitMessage := options.CommitMessage
	if len(strings.TrimSpace(commitMessage)) == 0 {
		return runResult, ExitStatusError{ExitStatus: ExitStatusEmptyCommitMessageConstant, Message: emptyCommitMessageMessageConstant}
	}

	commitError := service.repositoryGateway.Commit(executionContext, repositoryRoot, commitMessage)
	if commitError != nil {
		return runResult, commitError
	}
	runResult.Committed = true

	branchName, branchError := service.repositoryGateway.CurrentBranch(executionContext, repositoryRoot)
	if branchError != nil {
		return runResult, branchError
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 || trimmedBranchName == detachedHeadBranchNameConstant {
		return runResult, ExitStatusError{
			ExitStatus: ExitStatusBranchUndeterminedConstant,
			Message:    branchUndeterminedMessageConstant,
		}
	}
	runResult.BranchName = trimmedBranchName

	pushError := service.repositoryGateway.Push(executionContext, repositoryRoot, options.RemoteName, trimmedBranchName)
	if pushError != nil {
		return runResult, pushError
	}
	runResult.Pushed = true

	fmt.Fprint(service.output, completionMessageConstant)
	return runResult, nil
}

func filterForbidden(stagedFiles []string, forbiddenPrefixes []string) []string {
	forbiddenFiles := make([]string, 0)
	for _, stagedFile := range stagedFiles {
		for _, forbiddenPrefix := range forbiddenPrefixes {
			if strings.HasPrefix(stagedFile, forbiddenPrefix) {
				forbiddenFiles = append(forbiddenFiles, stagedFile)
				break
			}
		}
	}
	return forbiddenFiles
}
