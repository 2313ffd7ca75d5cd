package generate

import (
	"errors"
	"fmt"
)

// Sentinels for the input gate in front of the generation service.
var (
	ErrNoTopics          = errors.New("no topics given")
	ErrNoQuestions       = errors.New("all question counts are zero")
	ErrMissingCredential = errors.New("generation service credential is missing")
)

// ConfigurationError reports input that must be fixed before any generation
// attempt. It unwraps to one of the sentinels above.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a failed or timed-out call to the generation service.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation with %s failed: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsGenerationError reports whether err is, or wraps, a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
