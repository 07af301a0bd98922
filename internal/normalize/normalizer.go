package normalize

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	fileReadErrorTemplateConstant    = "failed to read %s: %w"
	fileWriteErrorTemplateConstant   = "failed to write %s: %w"
	lineFeedConstant                 = "\n"
	trailingWhitespaceCutsetConstant = " \t\r\n"
)

var (
	carriageReturnLineFeedBytes = []byte("\r\n")
	lineFeedBytes               = []byte(lineFeedConstant)
)

// FileNormalizer cleans line endings and trailing whitespace on explicit file lists.
type FileNormalizer struct{}

// NewFileNormalizer constructs a FileNormalizer.
func NewFileNormalizer() *FileNormalizer {
	return &FileNormalizer{}
}

// Normalize cleans each listed file beneath rootDirectory and returns the
// relative paths that changed, in input order.
//
// Missing files, non-regular files, and files whose contents are not valid
// UTF-8 after CRLF rewriting are skipped without error.
func (normalizer *FileNormalizer) Normalize(rootDirectory string, relativePaths []string) ([]string, error) {
	changedPaths := []string{}
	for _, relativePath := range relativePaths {
		absolutePath := filepath.Join(rootDirectory, relativePath)
		changed, normalizationError := normalizer.normalizeFile(absolutePath)
		if normalizationError != nil {
			return changedPaths, normalizationError
		}
		if changed {
			changedPaths = append(changedPaths, relativePath)
		}
	}
	return changedPaths, nil
}

func (normalizer *FileNormalizer) normalizeFile(absolutePath string) (bool, error) {
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil || !fileInformation.Mode().IsRegular() {
		return false, nil
	}

	rawContent, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return false, fmt.Errorf(fileReadErrorTemplateConstant, absolutePath, readError)
	}

	rewrittenContent := bytes.ReplaceAll(rawContent, carriageReturnLineFeedBytes, lineFeedBytes)
	if !utf8.Valid(rewrittenContent) {
		return false, nil
	}

	cleanedContent := cleanLines(string(rewrittenContent))
	if bytes.Equal([]byte(cleanedContent), rawContent) {
		return false, nil
	}

	writeError := os.WriteFile(absolutePath, []byte(cleanedContent), fileInformation.Mode().Perm())
	if writeError != nil {
		return false, fmt.Errorf(fileWriteErrorTemplateConstant, absolutePath, writeError)
	}
	return true, nil
}

// cleanLines strips trailing whitespace per line while preserving the
// presence or absence of each line's terminator.
func cleanLines(text string) string {
	var cleanedBuilder strings.Builder
	remaining := text
	for len(remaining) > 0 {
		lineFeedIndex := strings.Index(remaining, lineFeedConstant)
		if lineFeedIndex == -1 {
			cleanedBuilder.WriteString(strings.TrimRight(remaining, trailingWhitespaceCutsetConstant))
			break
		}
		line := remaining[:lineFeedIndex]
		cleanedBuilder.WriteString(strings.TrimRight(line, trailingWhitespaceCutsetConstant))
		cleanedBuilder.WriteString(lineFeedConstant)
		remaining = remaining[lineFeedIndex+1:]
	}
	return cleanedBuilder.String()
}
