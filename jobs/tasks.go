package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskHistoryPrune is the task type for pruning old history entries.
	TaskHistoryPrune = "history:prune"
)

// HistoryPrunePayload bounds the retention window for one prune run.
type HistoryPrunePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewHistoryPruneTask constructs an Asynq task for the given retention.
func NewHistoryPruneTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(HistoryPrunePayload{RetentionHours: int(retention.Hours())})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHistoryPrune, data), nil
}

// HistoryStore is the slice of the history repository the prune job needs.
type HistoryStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryPruneJob deletes history entries older than the retention window.
type HistoryPruneJob struct {
	store  HistoryStore
	logger *slog.Logger
}

// NewHistoryPruneJob constructs a HistoryPruneJob.
func NewHistoryPruneJob(store HistoryStore, logger *slog.Logger) *HistoryPruneJob {
	return &HistoryPruneJob{store: store, logger: logger}
}

// Handle processes TaskHistoryPrune tasks.
func (j *HistoryPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload HistoryPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionHours <= 0 {
		// Retention disabled; nothing to do and no point retrying.
		return asynq.SkipRetry
	}
	cutoff := time.Now().UTC().Add(-time.Duration(payload.RetentionHours) * time.Hour)
	count, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("history prune complete",
			slog.Int64("deleted", count),
			slog.Time("cutoff", cutoff))
	}
	return nil
}
