package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/qpaper/internal/paper"
)

const (
	fieldPaperID    = "paper_id"
	fieldSubject    = "subject"
	fieldCourseCode = "course_code"
	fieldPosition   = "position"
	fieldText       = "text"

	deletePageSize = 500
)

// BleveIndex implements QuestionIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

var _ QuestionIndex = (*BleveIndex)(nil)

func questionMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	qm := bleve.NewDocumentMapping()
	text := bleve.NewTextFieldMapping()
	// Standard analyzer lowercases without stemming so "stacks" does not match "stack"
	// and course jargon survives intact.
	text.Analyzer = standard.Name
	qm.AddFieldMappingsAt(fieldText, text)

	exact := bleve.NewKeywordFieldMapping()
	qm.AddFieldMappingsAt(fieldPaperID, exact)
	qm.AddFieldMappingsAt(fieldSubject, exact)
	qm.AddFieldMappingsAt(fieldCourseCode, exact)
	qm.AddFieldMappingsAt(fieldPosition, bleve.NewNumericFieldMapping())

	im.AddDocumentMapping("question", qm)
	im.DefaultType = "question"
	im.DefaultMapping = qm
	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// An existing index is reopened; remove the directory after changing the mapping.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, questionMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func questionID(paperID string, pos int) string {
	return fmt.Sprintf("%s#%d", paperID, pos)
}

// IndexPaper indexes every Body and SubQuestion line of p's question paper.
func (b *BleveIndex) IndexPaper(ctx context.Context, paperID string, p *paper.Parameters) (int, error) {
	if err := b.DeleteByPaper(ctx, paperID); err != nil {
		return 0, err
	}
	questions := paper.Questions(p.QuestionPaper)
	if len(questions) == 0 {
		return 0, nil
	}
	batch := b.index.NewBatch()
	for i, text := range questions {
		doc := map[string]interface{}{
			fieldPaperID:    paperID,
			fieldSubject:    p.Subject,
			fieldCourseCode: p.CourseCode,
			fieldPosition:   float64(i),
			fieldText:       text,
		}
		if err := batch.Index(questionID(paperID, i), doc); err != nil {
			return 0, fmt.Errorf("failed to queue question %d: %w", i, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return 0, fmt.Errorf("failed to index paper %s: %w", paperID, err)
	}
	return len(questions), nil
}

// Search runs a match query over question text and returns up to limit hits.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if opts == nil {
		opts = &SearchOptions{}
	}

	var q blevequery.Query
	if opts.Fuzzy {
		q = buildFuzzyQuery(query, opts.Fuzziness)
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(fieldText)
		q = mq
	}
	if opts.Subject != "" {
		tq := bleve.NewTermQuery(opts.Subject)
		tq.SetField(fieldSubject)
		q = bleve.NewConjunctionQuery(q, tq)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]*Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := &Hit{Score: hit.Score}
		h.PaperID, _ = hit.Fields[fieldPaperID].(string)
		h.Subject, _ = hit.Fields[fieldSubject].(string)
		h.CourseCode, _ = hit.Fields[fieldCourseCode].(string)
		h.Text, _ = hit.Fields[fieldText].(string)
		if pos, ok := hit.Fields[fieldPosition].(float64); ok {
			h.Position = int(pos)
		}
		out = append(out, h)
	}
	return out, nil
}

// buildFuzzyQuery creates a disjunction of fuzzy term queries over question text.
func buildFuzzyQuery(query string, fuzziness int) blevequery.Query {
	if fuzziness <= 0 {
		fuzziness = 1
	}
	terms := strings.Fields(strings.ToLower(query))
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(fieldText)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DeleteByPaper removes every question indexed for paperID.
func (b *BleveIndex) DeleteByPaper(ctx context.Context, paperID string) error {
	tq := bleve.NewTermQuery(paperID)
	tq.SetField(fieldPaperID)
	for {
		req := bleve.NewSearchRequest(tq)
		req.Size = deletePageSize
		results, err := b.index.SearchInContext(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to find questions of %s: %w", paperID, err)
		}
		if len(results.Hits) == 0 {
			return nil
		}
		batch := b.index.NewBatch()
		for _, hit := range results.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to delete questions of %s: %w", paperID, err)
		}
	}
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of indexed questions.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
