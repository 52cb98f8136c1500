package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv("SATEXT_CONFIG", "/etc/satext")
	assert.Equal(t, "/etc/satext/", configPath())

	t.Setenv("SATEXT_CONFIG", "")
	assert.Equal(t, defaultConfigPath, configPath())
}

func TestConfigDump(t *testing.T) {
	t.Cleanup(func() { dumpJSON = false })

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "dump", "--json", "--config", "../etc"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"GormEngine": "mysql"`)
}
