package subtitle

// Entry is one SRT caption block.
// StartTime and EndTime are kept as the raw timecode tokens so they are written
// back byte-for-byte; only Text is ever replaced by translation.
type Entry struct {
	Index     int    // original ordinal, preserved verbatim
	StartTime string // e.g. 00:02:16,612
	EndTime   string
	Text      string // one or more lines joined by \n
}

// Document is an ordered list of entries in file order.
type Document struct {
	Entries []Entry
}

// Len returns the number of entries
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// IsEmpty reports whether no valid block was parsed.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}
