package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/feedrail/internal/service"
)

// HandlePublishPostTask processes one delivery of a publish job. Redeliveries
// for posts that already left QUEUED succeed without doing anything; jobs that
// can never succeed skip the retry budget.
func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid publish payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.PostID == "" {
		return fmt.Errorf("publish payload without post id: %w", asynq.SkipRetry)
	}

	res, err := q.ps.ProcessJob(ctx, payload.PostID)
	switch {
	case errors.Is(err, service.ErrNotActionable):
		return nil
	case errors.Is(err, service.ErrPostNotFound):
		return fmt.Errorf("post %s: %v: %w", payload.PostID, err, asynq.SkipRetry)
	case err != nil:
		slog.Error("publish job failed", "post_id", payload.PostID, "error", err)
		return err
	}

	slog.Info("publish job done", "post_id", res.PostID, "status", res.Status)
	return nil
}

// Mux routes publish tasks to the queue handler.
func (q *Queue) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypePublishPost, q.HandlePublishPostTask)
	return mux
}
