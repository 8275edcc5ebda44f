package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SubtitleExt is the only subtitle format handled.
const SubtitleExt = ".srt"

// SubtitleFile describes one discovered subtitle file.
type SubtitleFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ListSubtitleFiles returns the .srt files directly inside dir (no recursion),
// sorted by name.
func ListSubtitleFiles(dir string) ([]SubtitleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	ret := make([]SubtitleFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), SubtitleExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata of %s: %w", entry.Name(), err)
		}

		ret = append(ret, SubtitleFile{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
			Size: info.Size(),
		})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret, nil
}

// Paths projects the Path of each file
func Paths(files []SubtitleFile) []string {
	ret := make([]string, len(files))
	for i, f := range files {
		ret[i] = f.Path
	}
	return ret
}

// Stat describes a single subtitle file given by path.
func Stat(path string) (SubtitleFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SubtitleFile{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return SubtitleFile{}, fmt.Errorf("%s is not a regular file", path)
	}
	return SubtitleFile{
		Path: path,
		Name: info.Name(),
		Size: info.Size(),
	}, nil
}
