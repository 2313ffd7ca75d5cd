package paper

import (
	"regexp"
	"strings"
)

// LineClass is the structural role of one line of generated text.
type LineClass int

const (
	Blank LineClass = iota
	Metadata
	Separator
	SectionHeading
	MarksAnnotation
	SubQuestion
	Body
)

var lineClassNames = [...]string{
	Blank:           "blank",
	Metadata:        "metadata",
	Separator:       "separator",
	SectionHeading:  "section_heading",
	MarksAnnotation: "marks_annotation",
	SubQuestion:     "sub_question",
	Body:            "body",
}

func (c LineClass) String() string {
	if c < 0 || int(c) >= len(lineClassNames) {
		return "unknown"
	}
	return lineClassNames[c]
}

// RawLine is one unprocessed line and its index within its source text.
type RawLine struct {
	Index int
	Text  string
}

// SplitLines splits text on line boundaries (\n, \r\n or \r).
func SplitLines(text string) []RawLine {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([]RawLine, len(parts))
	for i, p := range parts {
		lines[i] = RawLine{Index: i, Text: p}
	}
	return lines
}

// Classification is the result of classifying one line: its class and the
// markdown-stripped, trimmed text that any resulting block carries.
type Classification struct {
	Class LineClass
	Text  string
}

// metadataLabels are the configuration echoes the generator tends to repeat.
// The header already renders these from structured parameters.
var metadataLabels = []string{
	"SUBJECT",
	"COURSE CODE",
	"EXAM TYPE",
	"SEMESTER",
	"TOTAL MARKS",
	"TIME",
	"INSTRUCTIONS",
	"NOTE",
	"PROGRAM",
}

var (
	metadataRe    = regexp.MustCompile(`^(?:` + strings.Join(metadataLabels, "|") + `)\s*:`)
	marksRe       = regexp.MustCompile(`CO\d+\s*\(\d+\)`)
	subQuestionRe = regexp.MustCompile(`^(?:[a-z]\)|[ivx]+\.)`)
	headingHashRe = regexp.MustCompile(`^\s*#{1,6}`)
)

// rule is one entry of the classification table. Rules are tried in order and
// the first match wins; categories overlap, so the order is significant.
type rule struct {
	class LineClass
	match func(text, upper string, first bool) bool
}

var rules = []rule{
	{Blank, isBlank},
	{Metadata, func(_, upper string, _ bool) bool { return metadataRe.MatchString(upper) }},
	{Separator, func(text, _ string, _ bool) bool { return isSeparator(text) }},
	{SectionHeading, isSectionHeading},
	{MarksAnnotation, func(text, _ string, _ bool) bool { return marksRe.MatchString(text) }},
	{SubQuestion, func(text, _ string, _ bool) bool { return subQuestionRe.MatchString(text) }},
}

// Classify assigns a LineClass to line. first reports whether line is the
// first non-blank line of its source text. Classify is total: every input
// yields exactly one class, falling back to Body.
func Classify(line string, first bool) Classification {
	text := StripMarkdown(line)
	upper := strings.ToUpper(text)
	for _, r := range rules {
		if r.match(text, upper, first) {
			if r.class == Blank {
				text = ""
			}
			return Classification{Class: r.class, Text: text}
		}
	}
	return Classification{Class: Body, Text: text}
}

// StripMarkdown removes bold/underline emphasis markers and leading heading
// hashes, then trims surrounding whitespace.
func StripMarkdown(line string) string {
	s := strings.ReplaceAll(line, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = headingHashRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// isBlank also swallows echoes of the document's own headings: "question
// paper" anywhere, and "answer key" when it opens a text.
func isBlank(text, upper string, first bool) bool {
	if text == "" {
		return true
	}
	if upper == "QUESTION PAPER" {
		return true
	}
	return first && upper == "ANSWER KEY"
}

func isSeparator(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		switch r {
		case '-', '_', '*', ' ':
		default:
			return false
		}
	}
	return true
}

func isSectionHeading(_, upper string, _ bool) bool {
	return strings.HasPrefix(upper, "UNIT") ||
		strings.HasPrefix(upper, "SECTION") ||
		strings.HasPrefix(upper, "PART")
}
