package commitpush

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidycommit/tidycommit/internal/gitrepo"
	"github.com/tidycommit/tidycommit/internal/utils"
)

const (
	commandUseConstant                    = "commit-push"
	commandShortDescriptionConstant       = "Normalize, stage, commit, and push a curated set of files"
	commandLongDescriptionConstant        = "commit-push normalizes whitespace in a configured file allowlist, stages exactly those files, validates the staged set against forbidden path prefixes, and commits and pushes to the current branch."
	commandExecutionErrorTemplateConstant = "commit and push failed: %w"
	unexpectedArgumentsMessageConstant    = "commit-push does not accept positional arguments"
	flagMessageNameConstant               = "message"
	flagMessageShorthandConstant          = "m"
	flagMessageDescriptionConstant        = "Commit message"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Validate and stage without committing or pushing"
	flagRemoteNameConstant                = "remote"
	flagRemoteDescriptionConstant         = "Name of the remote to push to"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for the commit-push workflow.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	RepositoryGateway            RepositoryGateway
	FileNormalizer               FileNormalizer
	WorkingDirectory             string
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the commit-push command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().StringP(flagMessageNameConstant, flagMessageShorthandConstant, "", flagMessageDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, defaultRemoteNameConstant, flagRemoteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryGateway, gatewayError := ResolveRepositoryGateway(builder.RepositoryGateway, gitExecutor)
	if gatewayError != nil {
		return gatewayError
	}

	service, serviceError := NewService(Dependencies{
		RepositoryGateway: repositoryGateway,
		FileNormalizer:    ResolveFileNormalizer(builder.FileNormalizer),
		Output:            utils.NewFlushingWriter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	options := builder.parseOptions(command)
	_, runError := service.Run(command.Context(), options)
	if runError != nil {
		exitStatusError := ExitStatusError{}
		if errors.As(runError, &exitStatusError) {
			return runError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) Options {
	configuration := builder.resolveConfiguration()

	commitMessage := configuration.CommitMessage
	if command.Flags().Changed(flagMessageNameConstant) {
		commitMessage, _ = command.Flags().GetString(flagMessageNameConstant)
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(flagDryRunNameConstant) {
		dryRun, _ = command.Flags().GetBool(flagDryRunNameConstant)
	}

	remoteName := configuration.RemoteName
	if command.Flags().Changed(flagRemoteNameConstant) {
		remoteNameValue, _ := command.Flags().GetString(flagRemoteNameConstant)
		trimmedRemoteName := strings.TrimSpace(remoteNameValue)
		if len(trimmedRemoteName) > 0 {
			remoteName = trimmedRemoteName
		}
	}

	return Options{
		WorkingDirectory:  builder.WorkingDirectory,
		Files:             configuration.Files,
		ForbiddenPrefixes: configuration.ForbiddenPrefixes,
		CommitMessage:     commitMessage,
		RemoteName:        remoteName,
		DryRun:            dryRun,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
