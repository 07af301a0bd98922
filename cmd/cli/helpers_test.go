package cli_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigurationFile(t *testing.T, configurationPath string, configurationContent string) {
	t.Helper()
	require.NoError(t, os.WriteFile(configurationPath, []byte(configurationContent), 0o644))
}
