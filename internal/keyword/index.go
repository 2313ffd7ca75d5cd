// Package keyword maintains the question bank: a full-text index of every
// question line of every archived paper.
package keyword

import (
	"context"
	"errors"

	"github.com/hyperjump/qpaper/internal/paper"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

// Question is one indexed question line.
type Question struct {
	PaperID    string `json:"paper_id"`
	Subject    string `json:"subject"`
	CourseCode string `json:"course_code"`
	// Position is the zero-based ordinal of the question within its paper.
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Hit is a question matching a search, with its relevance score.
type Hit struct {
	Question
	Score float64 `json:"score"`
}

// SearchOptions narrows a search. Nil means defaults.
type SearchOptions struct {
	// Subject restricts hits to papers with exactly this subject.
	Subject string
	// Fuzzy enables typo-tolerant matching.
	Fuzzy bool
	// Fuzziness is the maximum edit distance for fuzzy terms (1 or 2). Default 1.
	Fuzziness int
}

// QuestionIndex defines question bank operations.
type QuestionIndex interface {
	// IndexPaper replaces the indexed questions of paperID with those of p.
	// Returns the number of questions indexed.
	IndexPaper(ctx context.Context, paperID string, p *paper.Parameters) (int, error)
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error)
	DeleteByPaper(ctx context.Context, paperID string) error
	DocCount() (uint64, error)
	Close() error
}
