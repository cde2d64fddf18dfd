package setup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBinary(t *testing.T, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcp-server")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	return path
}

func TestRegister_PreservesOtherSettings(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "client", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte(`{
  "theme": "dark",
  "mcpServers": {"other": {"command": "/bin/other"}}
}`), 0o644))

	binary := fakeBinary(t, 0o755)
	path, err := Register(Options{ConfigPath: configPath, BinaryPath: binary, DataDir: "/data/vault", GeminiAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, configPath, path)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "dark", raw["theme"])

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Contains(t, cfg.MCPServers, "other")
	server := cfg.MCPServers[ServerName]
	assert.Equal(t, binary, server.Command)
	assert.Equal(t, "/data/vault", server.Env["COGNISPHERE_DATA_DIR"])
	assert.Equal(t, "k", server.Env["GEMINI_API_KEY"])
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, cfg.MCPServers)
}

func TestLoadConfig_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestCheckStatus(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	status, err := CheckStatus(configPath)
	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.Equal(t, []string{"server is not registered"}, status.Issues)

	binary := fakeBinary(t, 0o755)
	_, err = Register(Options{ConfigPath: configPath, BinaryPath: binary})
	require.NoError(t, err)

	status, err = CheckStatus(configPath)
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, binary, status.ServerPath)
	assert.Empty(t, status.Issues)

	require.NoError(t, os.Chmod(binary, 0o644))
	status, err = CheckStatus(configPath)
	require.NoError(t, err)
	assert.Len(t, status.Issues, 1)
	assert.Contains(t, status.Issues[0], "not executable")
}
