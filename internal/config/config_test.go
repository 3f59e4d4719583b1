package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsupload/internal/store"
	"vsupload/internal/upload"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vsupload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("VSUPLOAD_TEST_KEY", "sk-from-env")
	path := writeTemp(t, `api_key: ${VSUPLOAD_TEST_KEY}
base_url: https://proxy.example.com/v1
collection_name: Docs
collection_id: vs_123
timeout: 15s
include:
  - "**/*.md"
  - "**/*.pdf"
respect_gitignore: true
cleanup_on_failure: true
verify_collection: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", cfg.BaseURL)
	assert.Equal(t, "Docs", cfg.CollectionName)
	assert.Equal(t, "vs_123", cfg.CollectionID)
	assert.Equal(t, 15*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, []string{"**/*.md", "**/*.pdf"}, cfg.Include)
	assert.True(t, cfg.RespectGitignore)
	assert.True(t, cfg.CleanupOnFailure)
	assert.True(t, cfg.VerifyCollection)

	sc := cfg.StoreConfig()
	assert.Equal(t, "https://proxy.example.com/v1", sc.BaseURL)
	assert.Equal(t, 15*time.Second, sc.RequestTimeout)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "collection_id: vs_9\n"))
	require.NoError(t, err)
	assert.Equal(t, store.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, upload.DefaultCollectionName, cfg.CollectionName)
	assert.Equal(t, 60*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, "vs_9", cfg.CollectionID)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	_, err = Load(writeTemp(t, "timeout: soon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")

	_, err = Load(writeTemp(t, "include: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("collection_name: Local\n"), 0o644))
	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "Local", cfg.CollectionName)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("VSUPLOAD_SET", "value")
	t.Setenv("VSUPLOAD_EMPTY", "")

	tests := []struct {
		in    string
		want  string
		unset []string
	}{
		{"a=${VSUPLOAD_SET}", "a=value", nil},
		{"b=${VSUPLOAD_EMPTY:-fallback}", "b=fallback", nil},
		{"c=${VSUPLOAD_SET:-fallback}", "c=value", nil},
		{"d=${VSUPLOAD_UNSET_XYZ:-}", "d=", nil},
		{"e=${VSUPLOAD_UNSET_XYZ} f=${VSUPLOAD_UNSET_XYZ}", "e= f=", []string{"VSUPLOAD_UNSET_XYZ"}},
		{"g=${VSUPLOAD_EMPTY}", "g=", []string{"VSUPLOAD_EMPTY"}},
		{"h=$PLAIN ${not valid}", "h=$PLAIN ${not valid}", nil},
	}
	for _, tt := range tests {
		got, unset := expandEnv([]byte(tt.in))
		assert.Equal(t, tt.want, string(got), tt.in)
		assert.Equal(t, tt.unset, unset, tt.in)
	}
}

func TestLoad_ReportsUnsetVars(t *testing.T) {
	path := writeTemp(t, "api_key: ${VSUPLOAD_NO_SUCH_KEY}\nbase_url: ${VSUPLOAD_NO_SUCH_URL:-https://x.example/v1}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "https://x.example/v1", cfg.BaseURL)
	assert.Equal(t, []string{"VSUPLOAD_NO_SUCH_KEY"}, cfg.UnsetVars)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "sk-env")

	cfg := Default()
	assert.Equal(t, "sk-flag", cfg.ResolveAPIKey(" sk-flag "))
	assert.Equal(t, "sk-env", cfg.ResolveAPIKey(""))

	cfg.APIKey = "sk-file"
	assert.Equal(t, "sk-file", cfg.ResolveAPIKey(""))
}
