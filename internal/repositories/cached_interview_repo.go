package repositories

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
)

// Cache stores JSON-encoded values. A miss is (false, nil), never an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedInterviewRepo is a read-through cache in front of another store.
// Every write invalidates the document key and the owner's list key.
type CachedInterviewRepo struct {
	next  InterviewRepository
	cache Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedInterviewRepo(next InterviewRepository, c Cache, ttl time.Duration, log logrus.FieldLogger) *CachedInterviewRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logrus.New()
	}
	return &CachedInterviewRepo{next: next, cache: c, ttl: ttl, log: log}
}

func interviewKey(id string) string { return "interview:" + id }
func ownerListKey(ownerID string) string { return "interviews:owner:" + ownerID }

func (r *CachedInterviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	if err := r.next.Create(ctx, s); err != nil {
		return err
	}
	r.invalidate(ctx, ownerListKey(s.OwnerID))
	return nil
}

func (r *CachedInterviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var cached models.InterviewSession
	if hit, err := r.cache.GetJSON(ctx, interviewKey(id), &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		r.log.WithError(err).WithField("key", interviewKey(id)).Warn("cache read failed")
	}

	s, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, interviewKey(id), s, r.ttl); err != nil {
		r.log.WithError(err).WithField("key", interviewKey(id)).Warn("cache write failed")
	}
	return s, nil
}

func (r *CachedInterviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.InterviewSession, error) {
	var cached []models.InterviewSession
	if hit, err := r.cache.GetJSON(ctx, ownerListKey(ownerID), &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := r.next.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, ownerListKey(ownerID), rows, r.ttl); err != nil {
		r.log.WithError(err).WithField("key", ownerListKey(ownerID)).Warn("cache write failed")
	}
	return rows, nil
}

func (r *CachedInterviewRepo) Update(ctx context.Context, id string, patch models.SessionPatch) (*models.InterviewSession, error) {
	s, err := r.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, interviewKey(id), ownerListKey(s.OwnerID))
	return s, nil
}

func (r *CachedInterviewRepo) Delete(ctx context.Context, id string) error {
	// owner is immutable, so a cached copy is good enough to find the list key
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, interviewKey(id), ownerListKey(s.OwnerID))
	return nil
}

func (r *CachedInterviewRepo) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Del(ctx, keys...); err != nil {
		r.log.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}
