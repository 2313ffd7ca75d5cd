package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/qpaper/internal/models"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
	calls    int
	delay    time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func validRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Subject:      "Data Structures",
		CourseCode:   "CS701",
		Semester:     "7th",
		ExamType:     "Internal Test",
		TotalMarks:   50,
		Instructions: "1. Answer all questions.",
		Topics:       []string{"Stacks and Queues", "Linked Lists"},
		NumMCQ:       5,
		NumShort:     5,
		NumLong:      3,
	}
}

func TestService_Generate(t *testing.T) {
	gen := &fakeGenerator{response: "### QUESTION PAPER\n1. What is a stack?\n### ANSWER KEY\n1. LIFO.\n"}
	svc := NewService(gen, WithLogger(zap.NewNop()))
	res, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.QuestionPaper != "1. What is a stack?" || res.AnswerKey != "1. LIFO." || !res.MarkerFound {
		t.Errorf("unexpected result %+v", res)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1", gen.calls)
	}
	if !strings.Contains(gen.prompt, "- Stacks and Queues\n- Linked Lists") {
		t.Errorf("prompt missing topics:\n%s", gen.prompt)
	}
}

func TestService_Generate_missingMarker(t *testing.T) {
	svc := NewService(&fakeGenerator{response: "  1. Only questions here.  "})
	res, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res.MarkerFound || res.AnswerKey != PlaceholderAnswerKey || res.QuestionPaper != "1. Only questions here." {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestService_Generate_configurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GenerationRequest)
		want   error
	}{
		{"no topics", func(r *models.GenerationRequest) { r.Topics = nil }, ErrNoTopics},
		{"blank topics", func(r *models.GenerationRequest) { r.Topics = []string{" ", ""} }, ErrNoTopics},
		{"zero questions", func(r *models.GenerationRequest) { r.NumMCQ, r.NumShort, r.NumLong = 0, 0, 0 }, ErrNoQuestions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: "x"}
			req := validRequest()
			tt.mutate(req)
			_, err := NewService(gen).Generate(context.Background(), req)
			if !errors.Is(err, tt.want) || !IsConfigurationError(err) {
				t.Errorf("err = %v, want configuration error %v", err, tt.want)
			}
			if gen.calls != 0 {
				t.Error("generator must not be called on configuration errors")
			}
		})
	}
}

func TestService_Generate_missingGenerator(t *testing.T) {
	_, err := NewService(nil).Generate(context.Background(), validRequest())
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}
}

func TestService_Generate_failure(t *testing.T) {
	upstream := errors.New("quota exceeded")
	gen := &fakeGenerator{err: upstream}
	_, err := NewService(gen).Generate(context.Background(), validRequest())
	if !IsGenerationError(err) || !errors.Is(err, upstream) {
		t.Errorf("err = %v, want GenerationError wrapping upstream", err)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want exactly one attempt", gen.calls)
	}
}

func TestService_Generate_timeout(t *testing.T) {
	gen := &fakeGenerator{response: "late", delay: time.Second}
	_, err := NewService(gen, WithTimeout(10*time.Millisecond)).Generate(context.Background(), validRequest())
	if !IsGenerationError(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want GenerationError wrapping deadline", err)
	}
}

func TestNewGeminiClient_missingKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}
}
