// Package models defines the records exchanged between the CLI, HTTP API, generator and archive.
package models

import (
	"strings"
	"time"

	"github.com/hyperjump/qpaper/internal/paper"
)

// ExamTypes are the exam types offered by the configuration form.
var ExamTypes = []string{"Internal Test", "Mid-Semester", "End-Semester", "Lab Test"}

// DifficultyPatterns are the difficulty labels passed through to the generator.
var DifficultyPatterns = []string{
	"Mixed: Balanced Easy, Medium, Hard",
	"Mostly Easy (for internal tests)",
	"Mostly Medium",
	"Challenging: Mostly Hard",
}

// GenerationRequest is everything needed to ask the generation service for one paper.
type GenerationRequest struct {
	Subject      string   `json:"subject" yaml:"subject"`
	CourseCode   string   `json:"course_code" yaml:"course_code"`
	Semester     string   `json:"semester" yaml:"semester"`
	ExamType     string   `json:"exam_type" yaml:"exam_type"`
	TotalMarks   int      `json:"total_marks" yaml:"total_marks"`
	Instructions string   `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Topics       []string `json:"topics" yaml:"topics"`
	NumMCQ       int      `json:"num_mcq" yaml:"num_mcq"`
	NumShort     int      `json:"num_short" yaml:"num_short"`
	NumLong      int      `json:"num_long" yaml:"num_long"`
	Difficulty   string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// TotalQuestions returns the number of questions requested across all kinds.
func (r *GenerationRequest) TotalQuestions() int {
	return r.NumMCQ + r.NumShort + r.NumLong
}

// DifficultyOrDefault returns the difficulty label, defaulting to the balanced mix.
func (r *GenerationRequest) DifficultyOrDefault() string {
	if strings.TrimSpace(r.Difficulty) == "" {
		return DifficultyPatterns[0]
	}
	return r.Difficulty
}

// Source records how a paper's text was obtained.
type Source string

const (
	// SourceGenerated papers were written by the generation service.
	SourceGenerated Source = "generated"
	// SourceSupplied papers were assembled from text supplied by the caller.
	SourceSupplied Source = "supplied"
)

// PaperRecord is an archived paper: the parameter record it was assembled from.
// The document itself is rebuilt from Parameters on demand.
type PaperRecord struct {
	ID         string           `json:"id"`
	Parameters paper.Parameters `json:"parameters"`
	Topics     []string         `json:"topics,omitempty"`
	Source     Source           `json:"source"`
	Questions  int              `json:"questions"`
	CreatedAt  time.Time        `json:"created_at"`
}
