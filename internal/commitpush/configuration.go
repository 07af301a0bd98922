package commitpush

import "strings"

const (
	configurationMessageKeyConstant           = "message"
	configurationDryRunKeyConstant            = "dry_run"
	configurationRemoteKeyConstant            = "remote"
	configurationFilesKeyConstant             = "files"
	configurationForbiddenPrefixesKeyConstant = "forbidden_prefixes"
	configurationKeySeparatorConstant         = "."
	defaultRemoteNameConstant                 = "origin"
)

const defaultCommitMessageConstant = `Fix TypeScript build for Vercel

- Fix metric config typing and nullable fields
- Add Vite env typings and safe JSON parsing
- Add migration progress output
`

// defaultStagedFiles mirrors the curated allowlist the tool was built around.
// The list stays explicit rather than derived from a wildcard scan so local
// data can never be staged by accident.
var defaultStagedFiles = []string{
	"scripts/migrate-to-mongodb.js",
	"scripts/commit_and_push.py",
	"src/vite-env.d.ts",
	"src/types/school.ts",
	"src/components/Dashboard.tsx",
	"src/components/SchoolCard.tsx",
	"src/pages/SchoolsPage.tsx",
	"src/components/pipeline/FillDataMode.tsx",
	"src/components/pipeline/FunnelSelector.tsx",
	"src/components/pipeline/NumericMetricsDistribution.tsx",
	"src/components/pipeline/ResolveUnknownMode.tsx",
	"src/config/api.ts",
}

var defaultForbiddenPrefixes = []string{
	".env",
	"server/data/",
}

// CommandConfiguration captures configuration values for the commit-push command.
type CommandConfiguration struct {
	CommitMessage     string   `mapstructure:"message"`
	DryRun            bool     `mapstructure:"dry_run"`
	RemoteName        string   `mapstructure:"remote"`
	Files             []string `mapstructure:"files"`
	ForbiddenPrefixes []string `mapstructure:"forbidden_prefixes"`
}

// DefaultCommandConfiguration provides baseline configuration values for commit-push.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CommitMessage:     defaultCommitMessageConstant,
		DryRun:            false,
		RemoteName:        defaultRemoteNameConstant,
		Files:             append([]string{}, defaultStagedFiles...),
		ForbiddenPrefixes: append([]string{}, defaultForbiddenPrefixes...),
	}
}

// DefaultConfigurationValues produces Viper defaults for the commit-push command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationMessageKeyConstant:           defaults.CommitMessage,
		rootKey + configurationKeySeparatorConstant + configurationDryRunKeyConstant:            defaults.DryRun,
		rootKey + configurationKeySeparatorConstant + configurationRemoteKeyConstant:            defaults.RemoteName,
		rootKey + configurationKeySeparatorConstant + configurationFilesKeyConstant:             defaults.Files,
		rootKey + configurationKeySeparatorConstant + configurationForbiddenPrefixesKeyConstant: defaults.ForbiddenPrefixes,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	sanitized.Files = trimEntries(configuration.Files)
	sanitized.ForbiddenPrefixes = trimEntries(configuration.ForbiddenPrefixes)
	return sanitized
}

func trimEntries(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
