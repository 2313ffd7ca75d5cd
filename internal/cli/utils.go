// Package cli formats archive listings and question bank hits for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/qpaper/internal/keyword"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const rule = "─────────────────────────────────────────────────────────"

// PaperList is one page of archived papers.
type PaperList struct {
	Papers []*models.PaperRecord `json:"papers"`
	Total  int64                 `json:"total"`
	Offset int                   `json:"offset"`
}

// QuestionHits is the result of a question bank search.
type QuestionHits struct {
	Query string         `json:"query"`
	Hits  []*keyword.Hit `json:"hits"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WritePapers writes a page of archived papers to w in the given format.
func WritePapers(w io.Writer, list *PaperList, format OutputFormat) error {
	if format == OutputJSON {
		if list.Papers == nil {
			list.Papers = []*models.PaperRecord{}
		}
		return writeJSON(w, list)
	}
	fmt.Fprintf(w, "\n%d papers archived", list.Total)
	if n := len(list.Papers); n > 0 {
		fmt.Fprintf(w, " (showing %d-%d)", list.Offset+1, list.Offset+n)
	}
	fmt.Fprint(w, "\n\n")
	for _, rec := range list.Papers {
		p := rec.Parameters
		fmt.Fprintf(w, "%s  %-9s  %-10s  %s (%s), %s, %d marks, %d questions\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.Source, rec.ID[:min(8, len(rec.ID))],
			p.Subject, p.CourseCode, p.ExamType, p.TotalMarks, rec.Questions)
	}
	return nil
}

// WritePaper writes one archived paper record to w in the given format.
func WritePaper(w io.Writer, rec *models.PaperRecord, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, rec)
	}
	p := rec.Parameters
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "ID: %s\n", rec.ID)
	fmt.Fprintf(w, "Subject: %s (%s)\n", p.Subject, p.CourseCode)
	fmt.Fprintf(w, "Exam: %s | Semester: %s | Marks: %d\n", p.ExamType, p.Semester, p.TotalMarks)
	fmt.Fprintf(w, "Source: %s | Questions: %d | Created: %s\n", rec.Source, rec.Questions, rec.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(rec.Topics) > 0 {
		fmt.Fprintf(w, "Topics: %s\n", utils.Truncate(strings.Join(rec.Topics, ", "), 200))
	}
	return nil
}

// WriteQuestionHits writes question bank hits to w in the given format.
func WriteQuestionHits(w io.Writer, res *QuestionHits, format OutputFormat) error {
	if format == OutputJSON {
		if res.Hits == nil {
			res.Hits = []*keyword.Hit{}
		}
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, "\nFound %d questions for %q\n\n", len(res.Hits), res.Query)
	for i, h := range res.Hits {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%d. [%s %s] Score: %.4f | Paper: %s #%d\n",
			i+1, h.CourseCode, h.Subject, h.Score, h.PaperID, h.Position+1)
		fmt.Fprintf(w, "%s\n", utils.Truncate(utils.OneLine(h.Text), 200))
	}
	if len(res.Hits) > 0 {
		fmt.Fprintln(w)
	}
	return nil
}
