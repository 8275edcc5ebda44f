package file

import (
	"path/filepath"
	"strings"
)

// TranslatedSuffix is inserted between a file's stem and its extension.
const TranslatedSuffix = "_translated"

// TranslatedPath derives the output path for a translated subtitle:
// "dir/movie.srt" -> "dir/movie_translated.srt". A path without an extension
// gets the marker appended.
func TranslatedPath(path string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")
	if lastDot <= 0 {
		return filepath.Join(dir, filename+TranslatedSuffix)
	}

	return filepath.Join(dir, filename[:lastDot]+TranslatedSuffix+filename[lastDot:])
}

// IsTranslated reports whether path already carries the translated marker.
func IsTranslated(path string) bool {
	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.HasSuffix(stem, TranslatedSuffix)
}
