// Package memory is an in-process session store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/utils"
)

type InterviewRepo struct {
	mu   sync.RWMutex
	docs map[string]models.InterviewSession
	now  func() time.Time
}

func NewInterviewRepo() *InterviewRepo {
	return &InterviewRepo{
		docs: map[string]models.InterviewSession{},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func clone(s models.InterviewSession) *models.InterviewSession {
	out := s
	if s.Feedback != nil {
		fb := *s.Feedback
		out.Feedback = &fb
	}
	return &out
}

func (r *InterviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	r.docs[s.ID] = *clone(*s)
	return nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.docs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return clone(s), nil
}

func (r *InterviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.InterviewSession{}
	for _, s := range r.docs {
		if s.OwnerID == ownerID {
			out = append(out, *clone(s))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InterviewRepo) Update(ctx context.Context, id string, patch models.SessionPatch) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.docs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	patch.Apply(&s)
	s.UpdatedAt = r.now()
	r.docs[id] = *clone(s)
	return clone(s), nil
}

func (r *InterviewRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
