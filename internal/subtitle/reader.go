package subtitle

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)
	timeLine       = regexp.MustCompile(`(\S+)\s+-->\s+(\S+)`)
)

// Parse parses SRT content into a Document.
// Malformed blocks (fewer than three lines, a non-integer index, or a second line
// without "start --> end") are dropped silently. A document without any valid
// block is returned empty; deciding whether that is an error is up to the caller.
func Parse(content string) *Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.TrimSpace(content)

	doc := &Document{Entries: make([]Entry, 0)}
	if content == "" {
		return doc
	}

	for _, block := range blockSeparator.Split(content, -1) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		index, ok := parseIndex(lines[0])
		if !ok {
			continue
		}

		matches := timeLine.FindStringSubmatch(lines[1])
		if matches == nil {
			continue
		}

		doc.Entries = append(doc.Entries, Entry{
			Index:     index,
			StartTime: matches[1],
			EndTime:   matches[2],
			Text:      strings.Join(lines[2:], "\n"),
		})
	}

	return doc
}

// parseIndex accepts a plain run of digits naming an index of at least 1.
// Signed forms such as "-3" and "+3" are rejected.
func parseIndex(line string) (int, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] < '0' || line[0] > '9' {
		return 0, false
	}
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}

// DetectLanguage returns the most common language among the entries' texts.
func DetectLanguage(doc *Document) language.Tag {
	if doc.IsEmpty() {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, entry := range doc.Entries {
		lang := whatlanggo.DetectLang(entry.Text).Iso6391()
		if lang == "" {
			continue
		}
		langMap[lang]++
	}

	// Get top language, ties broken alphabetically to stay deterministic
	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount || (count == topCount && lang < topLang) {
			topLang = lang
			topCount = count
		}
	}
	if topLang == "" {
		return language.Und
	}

	tag, err := language.Parse(topLang)
	if err != nil {
		return language.Und
	}
	return tag
}
