package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/repositories/memory"
	"github.com/yoockh/interviewiq/internal/utils"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *mapCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCachedInterviewRepo_ReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	repo := NewCachedInterviewRepo(memory.NewInterviewRepo(), c, time.Minute, quietLogger())

	s := &models.InterviewSession{OwnerID: "u1", Role: "Data Engineer", Difficulty: models.DifficultyHard}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByID(ctx, s.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !c.has(interviewKey(s.ID)) {
		t.Fatal("expected document to be cached after first read")
	}
	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if c.hits != 1 || got.Role != "Data Engineer" {
		t.Fatalf("expected a cache hit with the stored role, hits=%d role=%q", c.hits, got.Role)
	}

	if _, err := repo.ListByOwner(ctx, "u1"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !c.has(ownerListKey("u1")) {
		t.Fatal("expected owner list to be cached")
	}

	q := "How would you partition a 10TB table?"
	if _, err := repo.Update(ctx, s.ID, models.SessionPatch{Question: &q}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.has(interviewKey(s.ID)) || c.has(ownerListKey("u1")) {
		t.Fatal("update must invalidate document and owner list")
	}

	got, err = repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Question != q {
		t.Fatalf("expected fresh question, got %q", got.Question)
	}
}

func TestCachedInterviewRepo_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	repo := NewCachedInterviewRepo(memory.NewInterviewRepo(), c, time.Minute, quietLogger())

	s := &models.InterviewSession{OwnerID: "u1", Role: "PM", Difficulty: models.DifficultyEasy}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.GetByID(ctx, s.ID); err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if c.has(interviewKey(s.ID)) {
		t.Fatal("delete must evict the cached document")
	}
	if err := repo.Delete(ctx, s.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
