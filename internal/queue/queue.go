package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of *asynq.Client the publisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher puts publish jobs on the asynq queue. The post id doubles as the
// task id so a post has at most one pending job.
type Publisher struct {
	client      Enqueuer
	retryBudget int
}

func NewPublisher(client Enqueuer, retryBudget int) *Publisher {
	if retryBudget < 0 {
		retryBudget = 0
	}
	return &Publisher{client: client, retryBudget: retryBudget}
}

func NewPublishTask(postID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishPost, payload), nil
}

func (p *Publisher) EnqueuePublish(ctx context.Context, postID string) error {
	task, err := NewPublishTask(postID)
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(PublishQueue),
		asynq.MaxRetry(p.retryBudget),
		asynq.TaskID(postID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		slog.Info("publish job already pending", "post_id", postID)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publish job enqueued", "post_id", postID, "task_id", info.ID, "queue", info.Queue)
	return nil
}
