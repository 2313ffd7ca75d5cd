package paper

import (
	"fmt"
	"strings"
)

// Layout constants of the institutional format.
const (
	DefaultInstitute = "INSTITUTE OF ENGINEERING AND TECHNOLOGY"
	DefaultProgram   = "B.E."
	DefaultDuration  = "3 Hrs"

	InstructionsTitle = "Instructions to the Candidates:"
	AnswerKeyTitle    = "Answer Key"

	instituteSize = 14
	titleSize     = 12
)

// Parameters is the structured configuration of one document. It is never
// mutated by this package.
type Parameters struct {
	Institute     string `json:"institute,omitempty" yaml:"institute,omitempty"`
	Subject       string `json:"subject" yaml:"subject"`
	CourseCode    string `json:"course_code" yaml:"course_code"`
	Semester      string `json:"semester" yaml:"semester"`
	ExamType      string `json:"exam_type" yaml:"exam_type"`
	TotalMarks    int    `json:"total_marks" yaml:"total_marks"`
	Program       string `json:"program,omitempty" yaml:"program,omitempty"`
	Duration      string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Instructions  string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	QuestionPaper string `json:"question_paper" yaml:"question_paper"`
	AnswerKey     string `json:"answer_key" yaml:"answer_key"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// BuildHeader renders the fixed institutional header from p alone.
func BuildHeader(p *Parameters) []Block {
	return []Block{
		Paragraph{
			Text:  orDefault(p.Institute, DefaultInstitute),
			Style: Style{Align: AlignCenter, Bold: true, Size: instituteSize},
		},
		Paragraph{
			Text:  strings.ToUpper(p.ExamType) + " EXAMINATION",
			Style: Style{Align: AlignCenter, Bold: true, Size: titleSize},
		},
		twoColumn("Program: "+orDefault(p.Program, DefaultProgram), "Semester: "+p.Semester),
		twoColumn("Course Name: "+p.Subject, fmt.Sprintf("Max. Marks: %d", p.TotalMarks)),
		twoColumn("Course Code: "+p.CourseCode, "Duration: "+orDefault(p.Duration, DefaultDuration)),
	}
}

func twoColumn(left, right string) Block {
	return Paragraph{
		Text:  left + "\t" + right,
		Style: Style{Bold: true, RightTab: true},
	}
}
