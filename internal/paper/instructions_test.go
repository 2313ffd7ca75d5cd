package paper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeInstructions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"numbered and dashed", "1. Line one.\n- Line two.\n", []string{"Line one.", "Line two."}},
		{"parenthesized", "1) Answer all.\n2) Be neat.", []string{"Answer all.", "Be neat."}},
		{"star bullets and padding", "  * First  \n\n\t*Second", []string{"First", "Second"}},
		{"internal punctuation kept", "3. Assume data (if any) - e.g. 1.5 kg.", []string{"Assume data (if any) - e.g. 1.5 kg."}},
		{"no marker", "Answer all questions", []string{"Answer all questions"}},
		{"marker only lines dropped", "1.\n-\nKeep", []string{"Keep"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeInstructions(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeInstructions(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestBuildHeader_overrides(t *testing.T) {
	blocks := BuildHeader(&Parameters{
		Institute:  "COLLEGE OF SCIENCE",
		Program:    "M.Tech",
		Duration:   "90 Min",
		ExamType:   "Lab Test",
		Subject:    "Networks",
		CourseCode: "CS702",
		Semester:   "7th",
		TotalMarks: 25,
	})
	want := []string{
		"COLLEGE OF SCIENCE",
		"LAB TEST EXAMINATION",
		"Program: M.Tech\tSemester: 7th",
		"Course Name: Networks\tMax. Marks: 25",
		"Course Code: CS702\tDuration: 90 Min",
	}
	var got []string
	for _, blk := range blocks {
		got = append(got, BlockText(blk))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildHeader() mismatch (-want +got):\n%s", diff)
	}
}
