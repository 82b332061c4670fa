package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (c *recordingClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.task = task
	c.opts = opts
	if c.err != nil {
		return nil, c.err
	}
	return &asynq.TaskInfo{ID: "post-1", Queue: PublishQueue}, nil
}

func TestEnqueuePublish(t *testing.T) {
	client := &recordingClient{}
	p := NewPublisher(client, 3)

	require.NoError(t, p.EnqueuePublish(context.Background(), "post-1"))
	require.NotNil(t, client.task)
	assert.Equal(t, TaskTypePublishPost, client.task.Type())

	var payload PublishPostPayload
	require.NoError(t, json.Unmarshal(client.task.Payload(), &payload))
	assert.Equal(t, "post-1", payload.PostID)
	assert.JSONEq(t, `{"postId":"post-1"}`, string(client.task.Payload()), "same body as the worker endpoint")

	opts := map[asynq.OptionType]any{}
	for _, o := range client.opts {
		opts[o.Type()] = o.Value()
	}
	assert.Equal(t, PublishQueue, opts[asynq.QueueOpt])
	assert.Equal(t, 3, opts[asynq.MaxRetryOpt])
	assert.Equal(t, "post-1", opts[asynq.TaskIDOpt])
}

func TestEnqueuePublishErrors(t *testing.T) {
	dup := &recordingClient{err: asynq.ErrTaskIDConflict}
	assert.NoError(t, NewPublisher(dup, 3).EnqueuePublish(context.Background(), "post-1"),
		"a pending job for the same post is not a failure")

	down := &recordingClient{err: errors.New("dial tcp: connection refused")}
	assert.Error(t, NewPublisher(down, 3).EnqueuePublish(context.Background(), "post-1"))
}

type stubPublisher struct {
	res *service.WorkerResult
	err error
	got string
}

func (s *stubPublisher) ProcessJob(_ context.Context, postID string) (*service.WorkerResult, error) {
	s.got = postID
	return s.res, s.err
}

func TestHandlePublishPostTask(t *testing.T) {
	task, err := NewPublishTask("post-1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		task      *asynq.Task
		res       *service.WorkerResult
		err       error
		wantErr   bool
		skipRetry bool
	}{
		{
			name: "processed",
			task: task,
			res:  &service.WorkerResult{PostID: "post-1", Status: models.PostStatusCompleted},
		},
		{
			name: "redelivery is acknowledged",
			task: task,
			err:  service.ErrNotActionable,
		},
		{
			name:      "unknown post is not retried",
			task:      task,
			err:       service.ErrPostNotFound,
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:    "storage failure is retried",
			task:    task,
			err:     errors.New("connection reset"),
			wantErr: true,
		},
		{
			name:      "malformed payload",
			task:      asynq.NewTask(TaskTypePublishPost, []byte("{")),
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "payload without id",
			task:      asynq.NewTask(TaskTypePublishPost, []byte(`{}`)),
			wantErr:   true,
			skipRetry: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(&stubPublisher{res: tt.res, err: tt.err})

			err := q.HandlePublishPostTask(context.Background(), tt.task)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
