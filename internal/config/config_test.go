package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbxmeta/internal/gbxfmt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gbxmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, ".map.gbx", cfg.Ext)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, gbxfmt.Options{}, cfg.DecodeOptions())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
format: JSON
strict: true
workers: 3
max_chunks: 64
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, ".map.gbx", cfg.Ext, "unset keys keep their defaults")

	opts := cfg.DecodeOptions()
	assert.Equal(t, gbxfmt.ModeStrict, opts.Mode)
	assert.Equal(t, 64, opts.EffectiveMaxChunks())
}

func TestLoadFile_ZeroWorkers(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "workers: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"format":     "format: xml\n",
		"ext":        "ext: \"\"\n",
		"max chunks": "max_chunks: -1\n",
		"cache":      "cache_size: 0\n",
		"syntax":     "format: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvVar, writeConfig(t, "format: cbor\n"))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "cbor", cfg.Format)
}
