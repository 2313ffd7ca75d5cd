// Package storage persists archived question papers.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/qpaper/internal/models"
)

// ErrNotFound is returned when no paper has the requested ID.
var ErrNotFound = errors.New("paper not found")

// Storage defines paper archive operations.
type Storage interface {
	// SavePaper inserts rec, replacing any paper with the same ID.
	SavePaper(ctx context.Context, rec *models.PaperRecord) error
	GetPaper(ctx context.Context, id string) (*models.PaperRecord, error)
	DeletePaper(ctx context.Context, id string) error
	// ListPapers returns papers newest first.
	ListPapers(ctx context.Context, offset, limit int) ([]*models.PaperRecord, error)
	CountPapers(ctx context.Context) (int64, error)

	Close() error
}
