package chunk

import (
	"github.com/MimeLyc/srtrans/internal/subtitle"
)

const (
	DefaultChunks    = 2
	DefaultMaxChunks = 8
)

// Split cuts entries in two at ceil(n/2). Both halves share the input's backing array.
func Split(entries []subtitle.Entry) ([]subtitle.Entry, []subtitle.Entry) {
	mid := (len(entries) + 1) / 2
	return entries[:mid], entries[mid:]
}

// Partition cuts entries into k contiguous parts. The first n%k parts hold one
// extra entry, so Partition(entries, 2) matches Split. Parts may be empty when
// k exceeds len(entries).
func Partition(entries []subtitle.Entry, k int) [][]subtitle.Entry {
	if k < 1 {
		k = 1
	}

	n := len(entries)
	base, rem := n/k, n%k
	parts := make([][]subtitle.Entry, 0, k)

	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		parts = append(parts, entries[start:start+size])
		start += size
	}
	return parts
}

// Planner decides how many requests one document is sent in.
type Planner struct {
	// Chunks is the minimum number of parts (default 2).
	Chunks int
	// MaxChunks caps how far the part count may grow to satisfy MaxChunkChars.
	MaxChunks int
	// MaxChunkChars bounds the text size of each part; 0 disables the bound.
	MaxChunkChars int
}

func NewPlanner(chunks, maxChunks, maxChunkChars int) Planner {
	return Planner{
		Chunks:        chunks,
		MaxChunks:     maxChunks,
		MaxChunkChars: maxChunkChars,
	}
}

// Plan partitions entries into at least p.Chunks parts, adding parts while any
// multi-entry part is over MaxChunkChars and the MaxChunks cap allows it.
func (p Planner) Plan(entries []subtitle.Entry) [][]subtitle.Entry {
	k := p.Chunks
	if k <= 0 {
		k = DefaultChunks
	}
	maxK := p.MaxChunks
	if maxK < k {
		maxK = k
	}

	parts := Partition(entries, k)
	for p.MaxChunkChars > 0 && k < maxK && k < len(entries) && p.oversized(parts) {
		k++
		parts = Partition(entries, k)
	}
	return parts
}

func (p Planner) oversized(parts [][]subtitle.Entry) bool {
	for _, part := range parts {
		if len(part) > 1 && TextSize(part) > p.MaxChunkChars {
			return true
		}
	}
	return false
}

// TextSize counts the bytes of text the part would put on the wire.
func TextSize(entries []subtitle.Entry) int {
	total := 0
	for _, entry := range entries {
		total += len(entry.Text)
	}
	return total
}

// ExtractTexts projects the text of each entry, in order.
func ExtractTexts(entries []subtitle.Entry) []string {
	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Text
	}
	return texts
}

// Merge returns a copy of entries with Text replaced position-wise by translated.
// A missing or empty translation keeps the original text.
func Merge(entries []subtitle.Entry, translated []string) []subtitle.Entry {
	ret := make([]subtitle.Entry, len(entries))
	for i, entry := range entries {
		ret[i] = entry
		if i < len(translated) && translated[i] != "" {
			ret[i].Text = translated[i]
		}
	}
	return ret
}
