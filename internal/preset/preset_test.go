package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `version: 1
requires: ">=0.2.0 <1.0.0"

default:
  format: hex
  workers: 4
  chunk_size: 64KiB
  exclude:
    - "*.nfo"
  quiet: false

presets:
  archive:
    chunk_size: 4MiB
    readahead: 16MiB
    workers: 1

  media:
    include:
      - "*.mkv"
      - "*.mp4"
    quiet: true

  json:
    format: json
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))
	require.NoError(t, err)
	assert.Len(t, cfg.Presets, 3)

	archive, err := cfg.GetPreset("archive")
	require.NoError(t, err)
	assert.Equal(t, "hex", archive.Format)
	assert.Equal(t, 1, archive.Workers)
	assert.Equal(t, []string{"*.nfo"}, archive.Exclude)

	chunk, err := archive.ChunkBytes()
	require.NoError(t, err)
	assert.Equal(t, 4<<20, chunk)
	readahead, err := archive.ReadaheadBytes()
	require.NoError(t, err)
	assert.Equal(t, 16<<20, readahead)

	media, err := cfg.GetPreset("media")
	require.NoError(t, err)
	assert.Equal(t, []string{"*.mkv", "*.mp4"}, media.Include)
	require.NotNil(t, media.Quiet)
	assert.True(t, *media.Quiet)
	assert.Equal(t, 4, media.Workers)

	js, err := cfg.GetPreset("json")
	require.NoError(t, err)
	assert.Equal(t, "json", js.Format)
	require.NotNil(t, js.Quiet)
	assert.False(t, *js.Quiet)

	_, err = cfg.GetPreset("missing")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "bad yaml", config: "version: [1"},
		{name: "wrong version", config: "version: 2\npresets:\n  a:\n    workers: 1\n"},
		{name: "no presets", config: "version: 1\n"},
		{name: "bad range", config: "version: 1\nrequires: \"soon\"\npresets:\n  a:\n    workers: 1\n"},
		{name: "bad format", config: "version: 1\npresets:\n  a:\n    format: octal\n"},
		{name: "bad size", config: "version: 1\npresets:\n  a:\n    chunk_size: huge\n"},
		{name: "bad default", config: "version: 1\ndefault:\n  workers: -1\npresets:\n  a:\n    workers: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.config))
			assert.Error(t, err)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))
	require.NoError(t, err)

	assert.NoError(t, cfg.CheckVersion("v0.3.1"))
	assert.NoError(t, cfg.CheckVersion("0.2.0"))
	assert.NoError(t, cfg.CheckVersion("dev"))
	assert.Error(t, cfg.CheckVersion("v0.1.9"))
	assert.Error(t, cfg.CheckVersion("1.0.0"))

	cfg.Requires = ""
	assert.NoError(t, cfg.CheckVersion("0.0.1"))
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))

	found, err := FindPresetFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)

	_, err = FindPresetFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
