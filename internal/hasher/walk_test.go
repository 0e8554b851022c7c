package hasher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mkv", "b.NFO", "c.txt", filepath.Join("sub", "d.mkv"), filepath.Join("sub", "e.jpg")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}

	base := func(paths ...string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			rel, err := filepath.Rel(dir, p)
			require.NoError(t, err)
			out[i] = filepath.ToSlash(rel)
		}
		return out
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "everything",
			want: []string{"a.mkv", "b.NFO", "c.txt", "sub/d.mkv", "sub/e.jpg"},
		},
		{
			name:    "exclude is case insensitive",
			exclude: []string{"*.nfo"},
			want:    []string{"a.mkv", "c.txt", "sub/d.mkv", "sub/e.jpg"},
		},
		{
			name:    "comma separated include",
			include: []string{"*.mkv, *.jpg"},
			want:    []string{"a.mkv", "sub/d.mkv", "sub/e.jpg"},
		},
		{
			name:    "include and exclude",
			include: []string{"*.mkv"},
			exclude: []string{"d.*"},
			want:    []string{"a.mkv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := CollectFiles([]string{dir}, tt.include, tt.exclude)
			require.NoError(t, err)

			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
				assert.Positive(t, f.Length)
				assert.False(t, f.ModTime.IsZero())
			}
			assert.Equal(t, tt.want, base(paths...))
		})
	}
}

func TestCollectFiles_ExplicitAndStdin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skip.nfo")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	// a file named on the command line is hashed even if it is excluded
	files, err := CollectFiles([]string{StdinPath, path, StdinPath}, nil, []string{"*.nfo"})
	require.NoError(t, err)
	require.Len(t, files, 2, "standard input is listed once")
	assert.Equal(t, StdinPath, files[0].Path)
	assert.Equal(t, path, files[1].Path)
	assert.Equal(t, int64(1), files[1].Length)

	_, err = CollectFiles([]string{filepath.Join(dir, "missing")}, nil, nil)
	assert.Error(t, err)
}

func TestParsePatterns(t *testing.T) {
	assert.Nil(t, ParsePatterns(nil))
	assert.Equal(t, []string{"*.nfo", "*.jpg", "sample*"}, ParsePatterns([]string{"*.NFO,*.jpg", " ", "Sample*,"}))
}
