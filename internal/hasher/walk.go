package hasher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/autobrr/mksha1/internal/types"
)

// CollectFiles expands paths into regular files, walking directories in
// lexical order. Include and exclude patterns are globs matched against the
// lowercased base name; a file is kept when it matches an include pattern
// (or none are given) and no exclude pattern. StdinPath is passed through
// once; standard input can only be read by one worker.
func CollectFiles(paths, include, exclude []string) ([]types.FileEntry, error) {
	include = ParsePatterns(include)
	exclude = ParsePatterns(exclude)

	var files []types.FileEntry
	var stdin bool
	for _, path := range paths {
		if path == StdinPath {
			if !stdin {
				files = append(files, types.FileEntry{Path: StdinPath})
				stdin = true
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", path, err)
		}

		if !info.IsDir() {
			// explicitly named files skip the filters
			files = append(files, entryFromInfo(path, info))
			continue
		}

		err = filepath.WalkDir(path, func(filePath string, de fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if de.IsDir() || !de.Type().IsRegular() {
				return nil
			}
			if !shouldHash(de.Name(), include, exclude) {
				return nil
			}
			info, err := de.Info()
			if err != nil {
				return err
			}
			files = append(files, entryFromInfo(filePath, info))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking path: %w", err)
		}
	}

	return files, nil
}

// ParsePatterns splits comma separated entries and drops empty ones, so
// both "--exclude a,b" and "--exclude a --exclude b" work.
func ParsePatterns(patterns []string) []string {
	var result []string
	for _, p := range patterns {
		for _, part := range strings.Split(p, ",") {
			if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

func shouldHash(name string, include, exclude []string) bool {
	name = strings.ToLower(name)
	if len(include) > 0 && !matchAny(name, include) {
		return false
	}
	return !matchAny(name, exclude)
}

func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func entryFromInfo(path string, info fs.FileInfo) types.FileEntry {
	return types.FileEntry{
		Path:    path,
		Length:  info.Size(),
		ModTime: info.ModTime(),
	}
}
