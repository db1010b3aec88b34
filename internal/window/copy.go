package window

import (
	"strings"

	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
)

// SerializeSelection walks the viewport under the caller's held
// render-state mutex and returns the selected text as a plain UTF-8
// string (spec §4.7's "Copy selection"). Spacer cells are skipped so a
// wide glyph contributes its codepoints exactly once; rows are joined
// with "\r\n" and each row's trailing blanks are trimmed.
func SerializeSelection(t term.Terminal, sel selection.Selection) string {

	if !sel.Active {
		return ""
	}

	var sb strings.Builder
	firstRow := true

	it := t.RowIterator()
	for {
		cells, absRow, ok := it.Next()
		if !ok {
			break
		}

		var line strings.Builder
		rowHasSelection := false

		for x, c := range cells {
			if !sel.Contains(absRow, x) {
				continue
			}
			rowHasSelection = true

			if c.Wide == term.WideSpacerTail || c.Wide == term.WideSpacerHead {
				continue
			}
			if c.Codepoint == 0 {
				line.WriteByte(' ')
				continue
			}
			line.WriteRune(c.Codepoint)
			for _, extra := range c.LookupGrapheme() {
				line.WriteRune(extra)
			}
		}

		if !rowHasSelection {
			continue
		}
		if !firstRow {
			sb.WriteString("\r\n")
		}
		firstRow = false
		sb.WriteString(strings.TrimRight(line.String(), " "))
	}

	return sb.String()
}
