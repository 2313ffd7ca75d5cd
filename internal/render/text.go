package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/qpaper/internal/paper"
)

// textWidth is the line width used to center and right-align in previews.
const textWidth = 78

// FileName returns the download name for a paper on subject.
func FileName(subject string) string {
	return strings.ReplaceAll(subject, " ", "_") + "_question_paper.docx"
}

// Text writes a plain-text preview of doc to w.
func Text(w io.Writer, doc *paper.Document) error {
	for _, blk := range doc.Blocks {
		var line string
		switch v := blk.(type) {
		case paper.Paragraph:
			line = layoutLine(v.Text, v.Style)
		case paper.BulletItem:
			line = "  • " + v.Text
		case paper.Heading:
			line = layoutLine(v.Text, v.Style)
			if v.Level == 1 {
				line += "\n" + layoutLine(strings.Repeat("=", utf8.RuneCountInString(v.Text)), v.Style)
			}
		case paper.PageBreak:
			line = "\f" + strings.Repeat("-", textWidth)
		}
		if hasSpaceBefore(blk) {
			line = "\n" + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func hasSpaceBefore(blk paper.Block) bool {
	switch v := blk.(type) {
	case paper.Paragraph:
		return v.Style.SpaceBefore
	case paper.Heading:
		return v.Style.SpaceBefore
	}
	return false
}

func layoutLine(text string, st paper.Style) string {
	if st.RightTab {
		if left, right, ok := strings.Cut(text, "\t"); ok {
			gap := textWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
			if gap < 1 {
				gap = 1
			}
			return left + strings.Repeat(" ", gap) + right
		}
	}
	n := utf8.RuneCountInString(text)
	switch st.Align {
	case paper.AlignCenter:
		if pad := (textWidth - n) / 2; pad > 0 {
			return strings.Repeat(" ", pad) + text
		}
	case paper.AlignRight:
		if pad := textWidth - n; pad > 0 {
			return strings.Repeat(" ", pad) + text
		}
	}
	return strings.Repeat("    ", st.Indent) + text
}
