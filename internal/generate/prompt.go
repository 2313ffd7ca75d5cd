// Package generate asks the generation service for question-paper text and
// splits the response into question paper and answer key.
package generate

import (
	"fmt"
	"strings"

	"github.com/hyperjump/qpaper/internal/models"
)

// Section markers the prompt asks the service to emit.
const (
	QuestionPaperMarker = "### QUESTION PAPER"
	AnswerKeyMarker     = "### ANSWER KEY"

	// PlaceholderAnswerKey replaces the answer key when the response has no marker.
	PlaceholderAnswerKey = "Answer key not generated."
)

const promptTemplate = `
You are a professional university exam question setter.
Generate a properly formatted question paper followed by an answer key.

FORMAT EXACTLY:

%s
<Complete formatted exam paper>

%s
<Number-wise answers>

Details:
Subject: %s
Course Code: %s
Semester: %s
Exam Type: %s
Total Marks: %d

Instructions:
%s

Topics to cover:
%s

Questions required:
MCQs: %d
Short Answer: %d
Long Answer: %d

Difficulty: %s
`

// BuildPrompt renders the setter prompt for req.
func BuildPrompt(req *models.GenerationRequest) string {
	topics := make([]string, len(req.Topics))
	for i, t := range req.Topics {
		topics[i] = "- " + t
	}
	return fmt.Sprintf(promptTemplate,
		QuestionPaperMarker, AnswerKeyMarker,
		req.Subject, req.CourseCode, req.Semester, req.ExamType, req.TotalMarks,
		req.Instructions,
		strings.Join(topics, "\n"),
		req.NumMCQ, req.NumShort, req.NumLong,
		req.DifficultyOrDefault(),
	)
}

// SplitResponse separates the service's response into question-paper and
// answer-key text. A response without the answer-key marker is taken whole as
// the question paper and the answer key becomes PlaceholderAnswerKey.
func SplitResponse(content string) (questionPaper, answerKey string) {
	q, a, found := strings.Cut(content, AnswerKeyMarker)
	if !found {
		return strings.TrimSpace(content), PlaceholderAnswerKey
	}
	q = strings.ReplaceAll(q, QuestionPaperMarker, "")
	return strings.TrimSpace(q), strings.TrimSpace(a)
}

// ParseTopics returns one topic per non-empty line of text.
func ParseTopics(text string) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
