package source

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatFor returns the scenario file format implied by a path's extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Scan returns the scenario files at path. A file path yields itself; a
// directory is walked for *.toml and *.json files, skipping hidden entries.
func Scan(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		format, ok := FormatFor(path)
		if !ok {
			return nil, errors.New("scenario files must end in .toml or .json")
		}
		return []DiscoveredFile{{Path: path, Format: format}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if strings.HasPrefix(d.Name(), ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if format, ok := FormatFor(p); ok {
			files = append(files, DiscoveredFile{Path: p, Format: format})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
