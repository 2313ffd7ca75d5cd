package paper

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		first bool
		class LineClass
		text  string
	}{
		{"empty", "", false, Blank, ""},
		{"whitespace only", "   \t ", false, Blank, ""},
		{"markdown only", "****", false, Blank, ""},
		{"question paper echo", "### QUESTION PAPER", false, Blank, ""},
		{"question paper echo lowercase", "Question Paper", false, Blank, ""},
		{"answer key echo when first", "**Answer Key**", true, Blank, ""},
		{"answer key text later", "Answer Key", false, Body, "Answer Key"},
		{"metadata subject", "Subject: Data Structures", false, Metadata, "Subject: Data Structures"},
		{"metadata lowercase", "course code: CS701", false, Metadata, "course code: CS701"},
		{"metadata bold", "**Total Marks:** 50", false, Metadata, "Total Marks: 50"},
		{"metadata space before colon", "Time : 3 Hours", false, Metadata, "Time : 3 Hours"},
		{"metadata note", "Note: Answer any five.", false, Metadata, "Note: Answer any five."},
		{"label without colon is body", "Subject of this essay", false, Body, "Subject of this essay"},
		{"separator dashes", "---", false, Separator, "---"},
		{"separator mixed", "- _ - _", false, Separator, "- _ - _"},
		{"separator stars", "***", false, Separator, "*"},
		{"unit heading", "**UNIT 1**", false, SectionHeading, "UNIT 1"},
		{"section heading", "SECTION A", false, SectionHeading, "SECTION A"},
		{"part heading hashes", "## Part B", false, SectionHeading, "Part B"},
		{"marks annotation", "   CO1 (10)", false, MarksAnnotation, "CO1 (10)"},
		{"marks annotation inline", "Explain hashing. CO3(5)", false, MarksAnnotation, "Explain hashing. CO3(5)"},
		{"co without marks is body", "Explain queues (CO1)", false, Body, "Explain queues (CO1)"},
		{"sub question letter", "a) Explain LIFO.", false, SubQuestion, "a) Explain LIFO."},
		{"sub question roman", "ii. Define a node.", false, SubQuestion, "ii. Define a node."},
		{"uppercase letter is body", "A) Option one", false, Body, "A) Option one"},
		{"numbered question", "1. What is a Stack?", false, Body, "1. What is a Stack?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line, tt.first)
			if got.Class != tt.class {
				t.Errorf("Classify(%q).Class = %s, want %s", tt.line, got.Class, tt.class)
			}
			if got.Text != tt.text {
				t.Errorf("Classify(%q).Text = %q, want %q", tt.line, got.Text, tt.text)
			}
		})
	}
}

// Rule order decides overlapping lines.
func TestClassify_priority(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		class LineClass
	}{
		{"heading wins over marks", "UNIT 2 CO2 (10)", SectionHeading},
		{"metadata wins over heading-like value", "Program: PART TIME", Metadata},
		{"marks wins over sub question", "a) Explain stacks CO2 (5)", MarksAnnotation},
		{"words starting with PART are headings", "Partition the array.", SectionHeading},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line, false).Class; got != tt.class {
				t.Errorf("Classify(%q) = %s, want %s", tt.line, got, tt.class)
			}
		})
	}
}

func TestClassify_strippingIsIdempotent(t *testing.T) {
	lines := []string{"**UNIT 1**", "__SECTION B__", "### Subject: DS", "**a) Explain.**", "**CO1 (10)**", "**---**"}
	for _, line := range lines {
		decorated := Classify(line, false)
		stripped := Classify(StripMarkdown(line), false)
		if decorated != stripped {
			t.Errorf("Classify(%q) = %+v, Classify(stripped) = %+v", line, decorated, stripped)
		}
	}
}

func TestClassify_everySeparatorIsFiltered(t *testing.T) {
	for _, line := range []string{"-", "--", "___", "* * *", "-_-_-", " - "} {
		cl := Classify(line, false)
		if cl.Class != Separator && cl.Class != Blank {
			t.Errorf("Classify(%q) = %s, want separator", line, cl.Class)
		}
		if Emits(cl.Class) {
			t.Errorf("separator %q should not emit", line)
		}
	}
}

func TestClassify_everyMetadataLabelIsFiltered(t *testing.T) {
	for _, label := range metadataLabels {
		for _, line := range []string{label + ": x", strings.ToLower(label) + ":x"} {
			cl := Classify(line, false)
			if cl.Class != Metadata {
				t.Errorf("Classify(%q) = %s, want metadata", line, cl.Class)
			}
			if Emits(cl.Class) {
				t.Errorf("metadata %q should not emit", line)
			}
		}
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**bold**", "bold"},
		{"__under__", "under"},
		{"### Heading", "Heading"},
		{"  # x  ", "x"},
		{"C# is a language", "C# is a language"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StripMarkdown(tt.in); got != tt.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\n\nc\n")
	want := []string{"a", "b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("SplitLines: got %d lines, want %d", len(got), len(want))
	}
	for i, line := range got {
		if line.Text != want[i] || line.Index != i {
			t.Errorf("line %d = %+v, want {%d %q}", i, line, i, want[i])
		}
	}
	if SplitLines("") != nil {
		t.Error("SplitLines(\"\") should be nil")
	}
}

func TestLineClass_String(t *testing.T) {
	if SubQuestion.String() != "sub_question" {
		t.Errorf("got %s", SubQuestion.String())
	}
	if LineClass(99).String() != "unknown" {
		t.Errorf("got %s", LineClass(99).String())
	}
}
