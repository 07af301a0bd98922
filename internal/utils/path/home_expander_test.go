package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/tidycommit/tidycommit/internal/utils/path"
)

const (
	homeExpanderSubtestNameTemplateConstant = "%d_%s"
	testHomeDirectoryConstant               = "/home/example"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		homeDirectoryProvider pathutils.HomeDirectoryProvider
		candidatePath         string
		expectedPath          string
	}{
		{
			name: "expands bare tilde",
			homeDirectoryProvider: func() (string, error) {
				return testHomeDirectoryConstant, nil
			},
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name: "expands tilde prefixed path",
			homeDirectoryProvider: func() (string, error) {
				return testHomeDirectoryConstant, nil
			},
			candidatePath: "~/configs/config.yaml",
			expectedPath:  filepath.Join(testHomeDirectoryConstant, "configs", "config.yaml"),
		},
		{
			name: "leaves absolute path unchanged",
			homeDirectoryProvider: func() (string, error) {
				return testHomeDirectoryConstant, nil
			},
			candidatePath: "/etc/config.yaml",
			expectedPath:  "/etc/config.yaml",
		},
		{
			name: "leaves relative path unchanged",
			homeDirectoryProvider: func() (string, error) {
				return testHomeDirectoryConstant, nil
			},
			candidatePath: "configs/config.yaml",
			expectedPath:  "configs/config.yaml",
		},
		{
			name: "leaves empty path unchanged",
			homeDirectoryProvider: func() (string, error) {
				return testHomeDirectoryConstant, nil
			},
			candidatePath: "",
			expectedPath:  "",
		},
		{
			name: "falls back when home lookup fails",
			homeDirectoryProvider: func() (string, error) {
				return "", errors.New("home directory unavailable")
			},
			candidatePath: "~/configs/config.yaml",
			expectedPath:  "~/configs/config.yaml",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(homeExpanderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.homeDirectoryProvider)
			expandedPath := expander.Expand(testCase.candidatePath)
			require.Equal(testInstance, testCase.expectedPath, expandedPath)
		})
	}
}

func TestHomeExpanderNilReceiver(testInstance *testing.T) {
	var expander *pathutils.HomeExpander
	require.Equal(testInstance, "~/configs", expander.Expand("~/configs"))
}
