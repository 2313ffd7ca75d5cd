// Package extract reads the input files an operator hands to qpaper: topic
// lists, candidate instructions and already-written question papers. Word,
// PDF and Excel files are reduced to newline-separated plain text so the
// line classifier sees the same structure it would see from the model.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for extensions the reader does not understand.
var ErrUnsupported = errors.New("unsupported input format")

// Extensions lists the file extensions Reader accepts.
var Extensions = []string{".txt", ".md", ".rst", ".docx", ".pdf", ".xlsx"}

// Reader turns input documents into plain text.
type Reader struct {
	maxBytes int64
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxBytes rejects files larger than n bytes. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(r *Reader) { r.maxBytes = n }
}

// NewReader returns a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Supported reports whether path has an extension Reader can read.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ReadFile reads the file at path and returns its text.
func (r *Reader) ReadFile(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	if r.maxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat input: %w", err)
		}
		if info.Size() > r.maxBytes {
			return "", fmt.Errorf("%s is %d bytes, limit is %d", filepath.Base(path), info.Size(), r.maxBytes)
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return r.Read(content, filepath.Ext(path))
}

// Read converts content to text according to ext (with leading dot).
func (r *Reader) Read(content []byte, ext string) (string, error) {
	if r.maxBytes > 0 && int64(len(content)) > r.maxBytes {
		return "", fmt.Errorf("input is %d bytes, limit is %d", len(content), r.maxBytes)
	}
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".rst":
		text, err = extractPlain(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".pdf":
		text, err = extractPDF(content)
	case ".xlsx":
		text, err = extractExcel(content)
	default:
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupported)
	}
	if err != nil {
		return "", err
	}
	return normalizeNewlines(text), nil
}

// ReadTopics reads path and returns one topic per non-empty line. For
// spreadsheets only the first column of each row is used.
func (r *Reader) ReadTopics(path string) ([]string, error) {
	text, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			line, _, _ = strings.Cut(line, "\t")
		}
		if line = strings.TrimSpace(line); line != "" {
			topics = append(topics, line)
		}
	}
	return topics, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
