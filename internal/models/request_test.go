package models

import "testing"

func TestGenerationRequest_TotalQuestions(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		want int
	}{
		{"none", GenerationRequest{}, 0},
		{"long only", GenerationRequest{NumLong: 2}, 2},
		{"mixed", GenerationRequest{NumMCQ: 10, NumShort: 5, NumLong: 3}, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.TotalQuestions(); got != tt.want {
				t.Errorf("TotalQuestions() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerationRequest_DifficultyOrDefault(t *testing.T) {
	if got := (&GenerationRequest{Difficulty: "  "}).DifficultyOrDefault(); got != DifficultyPatterns[0] {
		t.Errorf("blank difficulty = %q, want balanced mix", got)
	}
	if got := (&GenerationRequest{Difficulty: DifficultyPatterns[3]}).DifficultyOrDefault(); got != DifficultyPatterns[3] {
		t.Errorf("explicit difficulty = %q", got)
	}
}
