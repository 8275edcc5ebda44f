package subtitle

import (
	"strconv"
	"strings"
)

// Serialize renders doc back to SRT text.
// Blocks are separated by one blank line and there is no trailing blank line.
func Serialize(doc *Document) string {
	if doc.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	for i, entry := range doc.Entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strconv.Itoa(entry.Index))
		sb.WriteByte('\n')
		sb.WriteString(entry.StartTime)
		sb.WriteString(" --> ")
		sb.WriteString(entry.EndTime)
		sb.WriteByte('\n')
		sb.WriteString(entry.Text)
	}
	return sb.String()
}
