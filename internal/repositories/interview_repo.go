// Package repositories defines the interview session store contract shared by
// the Mongo and SQL implementations.
package repositories

import (
	"context"

	"github.com/yoockh/interviewiq/internal/models"
)

// InterviewRepository is the session store. Implementations assign ID,
// CreatedAt and UpdatedAt, and return utils.ErrNotFound for unknown ids.
type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	// ListByOwner returns sessions newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.InterviewSession, error)
	// Update applies the patch in a single write and returns the stored document.
	Update(ctx context.Context, id string, patch models.SessionPatch) (*models.InterviewSession, error)
	Delete(ctx context.Context, id string) error
}
