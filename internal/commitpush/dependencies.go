package commitpush

import (
	"go.uber.org/zap"

	"github.com/tidycommit/tidycommit/internal/execshell"
	"github.com/tidycommit/tidycommit/internal/gitrepo"
	"github.com/tidycommit/tidycommit/internal/normalize"
	"github.com/tidycommit/tidycommit/internal/ui"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// When human-readable logging is requested the executor reports command lifecycle
// events through a console observer instead of structured log entries.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		consoleObserver := ui.NewConsoleCommandEventLogger(logger)
		return execshell.NewShellExecutorWithObserver(zap.NewNop(), commandRunner, consoleObserver)
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

// ResolveRepositoryGateway returns the provided gateway or constructs one from the executor.
func ResolveRepositoryGateway(existing RepositoryGateway, executor gitrepo.GitExecutor) (RepositoryGateway, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveFileNormalizer returns the provided normalizer or an OS-backed default.
func ResolveFileNormalizer(existing FileNormalizer) FileNormalizer {
	if existing != nil {
		return existing
	}
	return normalize.NewFileNormalizer()
}
