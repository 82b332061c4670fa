package queue

import (
	"github.com/maheshrc27/feedrail/internal/service"
)

// Queue consumes publish jobs and hands them to the publish service.
type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const (
	TaskTypePublishPost = "post:publish"
	PublishQueue        = "publish"
)

type PublishPostPayload struct {
	PostID string `json:"postId"`
}
