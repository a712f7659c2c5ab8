package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	_ "github.com/geotrace/geotrace/testing"
)

type stubStore struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (s *stubStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.calls++
	s.cutoff = cutoff
	return s.deleted, s.err
}

func TestHistoryPruneDeletesBeforeCutoff(t *testing.T) {
	store := &stubStore{deleted: 7}
	job := NewHistoryPruneJob(store, nil)

	task, err := NewHistoryPruneTask(48 * time.Hour)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one delete call, got %d", store.calls)
	}

	want := time.Now().UTC().Add(-48 * time.Hour)
	if diff := store.cutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff %v too far from expected %v", store.cutoff, want)
	}
}

func TestHistoryPruneBadPayloadSkipsRetry(t *testing.T) {
	store := &stubStore{}
	job := NewHistoryPruneJob(store, nil)

	task := asynq.NewTask(TaskHistoryPrune, []byte("not-json"))
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be touched")
	}
}

func TestHistoryPruneZeroRetentionSkipsRetry(t *testing.T) {
	store := &stubStore{}
	job := NewHistoryPruneJob(store, nil)

	task, err := NewHistoryPruneTask(0)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be touched")
	}
}

func TestHistoryPruneStoreErrorPropagates(t *testing.T) {
	store := &stubStore{err: errors.New("mongo down")}
	job := NewHistoryPruneJob(store, nil)

	task, err := NewHistoryPruneTask(time.Hour)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatalf("expected error to propagate for retry")
	}
}
