package generate

import (
	"context"
	"strings"
	"time"

	"github.com/hyperjump/qpaper/internal/models"
	"go.uber.org/zap"
)

// Result is the split response of one generation run.
type Result struct {
	QuestionPaper string
	AnswerKey     string
	// MarkerFound is false when the answer key is the placeholder.
	MarkerFound bool
}

// Service validates requests and runs them against a TextGenerator.
type Service struct {
	gen     TextGenerator
	timeout time.Duration
	logger  *zap.Logger // optional
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a logger for generation events.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithTimeout bounds each generation call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a Service around gen.
func NewService(gen TextGenerator, opts ...ServiceOption) *Service {
	s := &Service{gen: gen}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the input gate: at least one topic and at least one
// non-zero question count.
func Validate(req *models.GenerationRequest) error {
	hasTopic := false
	for _, t := range req.Topics {
		if strings.TrimSpace(t) != "" {
			hasTopic = true
			break
		}
	}
	if !hasTopic {
		return &ConfigurationError{Field: "topics", Err: ErrNoTopics}
	}
	if req.TotalQuestions() <= 0 {
		return &ConfigurationError{Field: "question counts", Err: ErrNoQuestions}
	}
	return nil
}

// Generate runs one generation attempt for req. A failed call yields a
// GenerationError and no partial result.
func (s *Service) Generate(ctx context.Context, req *models.GenerationRequest) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, &ConfigurationError{Field: "api_key", Err: ErrMissingCredential}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.gen.Generate(ctx, BuildPrompt(req))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("generation failed", zap.String("model", s.gen.Model()), zap.Error(err))
		}
		return nil, &GenerationError{Model: s.gen.Model(), Err: err}
	}

	qp, ak := SplitResponse(content)
	res := &Result{
		QuestionPaper: qp,
		AnswerKey:     ak,
		MarkerFound:   strings.Contains(content, AnswerKeyMarker),
	}
	if s.logger != nil {
		s.logger.Info("paper generated",
			zap.String("model", s.gen.Model()),
			zap.String("subject", req.Subject),
			zap.Duration("elapsed", time.Since(start)),
			zap.Bool("answer_key_marker", res.MarkerFound),
		)
	}
	return res, nil
}
