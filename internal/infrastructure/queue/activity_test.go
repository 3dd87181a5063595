package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory activity repository
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityEntry
	err     error
}

func (r *stubActivityRepo) Insert(_ context.Context, entry *domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubActivityRepo) ListByUser(context.Context, string, int, int) ([]*domain.ActivityEntry, int64, error) {
	return nil, 0, nil
}

func (r *stubActivityRepo) ListByEntity(context.Context, string, string, int, int) ([]*domain.ActivityEntry, int64, error) {
	return nil, 0, nil
}

func (r *stubActivityRepo) ListRecent(context.Context, int, int) ([]*domain.ActivityEntry, int64, error) {
	return nil, 0, nil
}

func (r *stubActivityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestActivityDispatcher_PersistsEntries(t *testing.T) {
	repo := &stubActivityRepo{}
	d := NewActivityDispatcher(2, repo, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "task_created", EntityType: "task", EntityID: "task-1"})
	}

	waitFor(t, func() bool { return repo.count() == 10 })
}

func TestActivityDispatcher_StampsCreatedAt(t *testing.T) {
	repo := &stubActivityRepo{}
	d := NewActivityDispatcher(1, repo, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "user_login"})

	waitFor(t, func() bool { return repo.count() == 1 })

	repo.mu.Lock()
	createdAt := repo.entries[0].CreatedAt
	repo.mu.Unlock()
	if createdAt.IsZero() {
		t.Fatal("CreatedAt must be stamped on enqueue")
	}
}

func TestActivityDispatcher_SameUserSameShard(t *testing.T) {
	d := NewActivityDispatcher(8, &stubActivityRepo{}, discardLogger)

	first := d.shardIndex("user-42")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("user-42"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
}

func TestActivityDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	// Workers never started: the channel fills up and further records
	// must be dropped instead of blocking the caller.
	d := NewActivityDispatcher(1, &stubActivityRepo{}, discardLogger)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+50; i++ {
			d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "task_updated"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}

func TestActivityDispatcher_InsertErrorSwallowed(t *testing.T) {
	repo := &stubActivityRepo{err: errors.New("write failed")}
	d := NewActivityDispatcher(1, repo, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "task_created"})
	d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "task_archived"})

	// Errors are logged and dropped; the worker keeps consuming.
	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	d.Record(&domain.ActivityEntry{UserID: "user-1", Action: "task_assigned"})
	waitFor(t, func() bool { return repo.count() == 1 })
}
