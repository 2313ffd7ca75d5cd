// Package composer runs the paper workflow end to end: generation or
// supplied text, assembly, archiving, question indexing and rendering.
package composer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/qpaper/internal/config"
	"github.com/hyperjump/qpaper/internal/extract"
	"github.com/hyperjump/qpaper/internal/fileid"
	"github.com/hyperjump/qpaper/internal/generate"
	"github.com/hyperjump/qpaper/internal/keyword"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/internal/paper"
	"github.com/hyperjump/qpaper/internal/render"
	"github.com/hyperjump/qpaper/internal/storage"
)

// Composer ties the archive, the question bank and the generation service together.
type Composer struct {
	store     storage.Storage
	index     keyword.QuestionIndex // optional
	gen       *generate.Service
	reader    *extract.Reader
	institute config.InstituteConfig
	outputDir string
	logger    *zap.Logger // optional
	now       func() time.Time

	// genMu serializes generation runs.
	genMu sync.Mutex
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets a logger for workflow events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// WithInstitute sets the header defaults used when a paper does not name its own.
func WithInstitute(inst config.InstituteConfig) Option {
	return func(c *Composer) { c.institute = inst }
}

// WithOutputDir sets where ProcessJobFile writes rendered papers.
func WithOutputDir(dir string) Option {
	return func(c *Composer) { c.outputDir = dir }
}

// WithQuestionIndex enables the question bank.
func WithQuestionIndex(idx keyword.QuestionIndex) Option {
	return func(c *Composer) { c.index = idx }
}

// WithReader sets the reader used for files referenced by jobs.
func WithReader(r *extract.Reader) Option {
	return func(c *Composer) { c.reader = r }
}

// New creates a Composer. gen may wrap a nil generator, in which case
// Generate fails with a missing-credential configuration error.
func New(store storage.Storage, gen *generate.Service, opts ...Option) *Composer {
	c := &Composer{
		store:  store,
		gen:    gen,
		reader: extract.NewReader(),
		institute: config.InstituteConfig{
			Name:     paper.DefaultInstitute,
			Program:  paper.DefaultProgram,
			Duration: paper.DefaultDuration,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.gen == nil {
		c.gen = generate.NewService(nil)
	}
	return c
}

// Generate asks the generation service for a paper and archives it under a new ID.
func (c *Composer) Generate(ctx context.Context, req *models.GenerationRequest) (*models.PaperRecord, error) {
	return c.generate(ctx, uuid.NewString(), req, header{})
}

// header carries per-paper overrides of the institute defaults.
type header struct {
	institute, program, duration string
}

func (c *Composer) generate(ctx context.Context, id string, req *models.GenerationRequest, hdr header) (*models.PaperRecord, error) {
	c.genMu.Lock()
	res, err := c.gen.Generate(ctx, req)
	c.genMu.Unlock()
	if err != nil {
		return nil, err
	}

	params := &paper.Parameters{
		Institute:     hdr.institute,
		Program:       hdr.program,
		Duration:      hdr.duration,
		Subject:       req.Subject,
		CourseCode:    req.CourseCode,
		Semester:      req.Semester,
		ExamType:      req.ExamType,
		TotalMarks:    req.TotalMarks,
		Instructions:  req.Instructions,
		QuestionPaper: res.QuestionPaper,
		AnswerKey:     res.AnswerKey,
	}
	return c.save(ctx, id, params, cleanTopics(req.Topics), models.SourceGenerated)
}

// Compose archives a paper whose text the caller already has.
func (c *Composer) Compose(ctx context.Context, params *paper.Parameters, topics []string) (*models.PaperRecord, error) {
	return c.compose(ctx, uuid.NewString(), params, topics)
}

func (c *Composer) compose(ctx context.Context, id string, params *paper.Parameters, topics []string) (*models.PaperRecord, error) {
	if params == nil {
		return nil, errors.New("compose: nil parameters")
	}
	p := *params
	if strings.TrimSpace(p.AnswerKey) == "" {
		p.AnswerKey = generate.PlaceholderAnswerKey
	}
	return c.save(ctx, id, &p, cleanTopics(topics), models.SourceSupplied)
}

func (c *Composer) save(ctx context.Context, id string, params *paper.Parameters, topics []string, source models.Source) (*models.PaperRecord, error) {
	c.applyInstitute(params)
	rec := &models.PaperRecord{
		ID:         id,
		Parameters: *params,
		Topics:     topics,
		Source:     source,
		Questions:  len(paper.Questions(params.QuestionPaper)),
		CreatedAt:  c.now(),
	}
	if err := c.store.SavePaper(ctx, rec); err != nil {
		return nil, err
	}
	if c.index != nil {
		if _, err := c.index.IndexPaper(ctx, id, &rec.Parameters); err != nil && c.logger != nil {
			// The archive is authoritative; Reindex repairs the question bank.
			c.logger.Warn("failed to index questions", zap.String("paper_id", id), zap.Error(err))
		}
	}
	if c.logger != nil {
		c.logger.Info("paper archived",
			zap.String("paper_id", id),
			zap.String("subject", params.Subject),
			zap.String("source", string(source)),
			zap.Int("questions", rec.Questions),
		)
	}
	return rec, nil
}

func (c *Composer) applyInstitute(p *paper.Parameters) {
	if p.Institute == "" {
		p.Institute = c.institute.Name
	}
	if p.Program == "" {
		p.Program = c.institute.Program
	}
	if p.Duration == "" {
		p.Duration = c.institute.Duration
	}
}

func cleanTopics(topics []string) []string {
	var out []string
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Get returns an archived paper.
func (c *Composer) Get(ctx context.Context, id string) (*models.PaperRecord, error) {
	return c.store.GetPaper(ctx, id)
}

// List returns a page of archived papers, newest first, and the total count.
func (c *Composer) List(ctx context.Context, offset, limit int) ([]*models.PaperRecord, int64, error) {
	recs, err := c.store.ListPapers(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := c.store.CountPapers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Document assembles the archived paper id.
func (c *Composer) Document(ctx context.Context, id string) (*models.PaperRecord, *paper.Document, error) {
	rec, err := c.store.GetPaper(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return rec, paper.Assemble(&rec.Parameters), nil
}

// Render rebuilds the .docx of the archived paper id and returns it with its download name.
func (c *Composer) Render(ctx context.Context, id string) ([]byte, string, error) {
	rec, doc, err := c.Document(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := render.DOCX(doc)
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", id, err)
	}
	return data, render.FileName(rec.Parameters.Subject), nil
}

// Delete removes a paper from the archive and its questions from the bank.
func (c *Composer) Delete(ctx context.Context, id string) error {
	if err := c.store.DeletePaper(ctx, id); err != nil {
		return err
	}
	if c.index != nil {
		if err := c.index.DeleteByPaper(ctx, id); err != nil {
			return fmt.Errorf("remove questions of %s: %w", id, err)
		}
	}
	if c.logger != nil {
		c.logger.Info("paper deleted", zap.String("paper_id", id))
	}
	return nil
}

// ErrNoQuestionBank is returned by question bank operations when no index is configured.
var ErrNoQuestionBank = errors.New("question bank is not configured")

// SearchQuestions searches the question bank.
func (c *Composer) SearchQuestions(ctx context.Context, query string, limit int, opts *keyword.SearchOptions) ([]*keyword.Hit, error) {
	if c.index == nil {
		return nil, ErrNoQuestionBank
	}
	return c.index.Search(ctx, query, limit, opts)
}

// Reindex rebuilds the question bank from the archive. Returns the number of
// questions indexed.
func (c *Composer) Reindex(ctx context.Context) (int, error) {
	if c.index == nil {
		return 0, ErrNoQuestionBank
	}
	const page = 100
	total := 0
	for offset := 0; ; offset += page {
		recs, err := c.store.ListPapers(ctx, offset, page)
		if err != nil {
			return total, err
		}
		for _, rec := range recs {
			n, err := c.index.IndexPaper(ctx, rec.ID, &rec.Parameters)
			if err != nil {
				return total, fmt.Errorf("index %s: %w", rec.ID, err)
			}
			total += n
		}
		if len(recs) < page {
			return total, nil
		}
	}
}

// Status summarizes the archive, the question bank and the output directory.
type Status struct {
	Papers    int64               `json:"papers"`
	Questions uint64              `json:"questions"`
	Output    storage.OutputUsage `json:"output"`
}

// Status reports archive and question bank sizes.
func (c *Composer) Status(ctx context.Context) (*Status, error) {
	papers, err := c.store.CountPapers(ctx)
	if err != nil {
		return nil, err
	}
	st := &Status{Papers: papers}
	if c.index != nil {
		if st.Questions, err = c.index.DocCount(); err != nil {
			return nil, err
		}
	}
	if st.Output, err = storage.ScanOutputDir(c.outputDir); err != nil {
		return nil, err
	}
	return st, nil
}

// ProcessJobFile runs the job at path under an ID derived from the path, so
// resubmitting the same file replaces its paper, and writes the rendered
// .docx to the output directory. Returns the archived record.
func (c *Composer) ProcessJobFile(ctx context.Context, path string) (*models.PaperRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	job, err := LoadJob(abs, c.reader)
	if err != nil {
		return nil, err
	}
	id := fileid.JobID(abs)

	var rec *models.PaperRecord
	if job.Supplied() {
		rec, err = c.compose(ctx, id, job.Parameters(), job.Topics)
	} else {
		hdr := header{institute: job.Institute, program: job.Program, duration: job.Duration}
		rec, err = c.generate(ctx, id, &job.GenerationRequest, hdr)
	}
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", filepath.Base(abs), err)
	}

	if c.outputDir != "" {
		out, err := c.writeOutput(rec, outputName(abs, rec.Parameters.Subject))
		if err != nil {
			return nil, err
		}
		if c.logger != nil {
			c.logger.Info("job rendered", zap.String("job", abs), zap.String("output", out))
		}
	}
	return rec, nil
}

// WithdrawJobFile deletes the paper produced by the job at path, along with
// its rendered output. Unknown jobs are ignored.
func (c *Composer) WithdrawJobFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	id := fileid.JobID(abs)
	rec, err := c.store.GetPaper(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, id); err != nil {
		return err
	}
	if c.outputDir != "" {
		out := filepath.Join(c.outputDir, outputName(abs, rec.Parameters.Subject))
		if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove output: %w", err)
		}
	}
	return nil
}

// outputName prefixes the download name with the job name so two jobs for
// the same subject do not overwrite each other.
func outputName(jobPath, subject string) string {
	job := strings.TrimSuffix(filepath.Base(jobPath), filepath.Ext(jobPath))
	return job + "-" + render.FileName(subject)
}

func (c *Composer) writeOutput(rec *models.PaperRecord, name string) (string, error) {
	data, err := render.DOCX(paper.Assemble(&rec.Parameters))
	if err != nil {
		return "", fmt.Errorf("render %s: %w", rec.ID, err)
	}
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	out := filepath.Join(c.outputDir, name)
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write output: %w", err)
	}
	return out, nil
}
