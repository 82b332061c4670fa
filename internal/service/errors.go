package service

import "errors"

var (
	// ErrValidation covers bad or missing input. Nothing is written.
	ErrValidation = errors.New("validation failed")
	// ErrBrandNotFound is returned both for missing brands and for brands owned
	// by another tenant so callers cannot probe for existence.
	ErrBrandNotFound = errors.New("brand not found or you do not have permission to access it")
	// ErrDispatch means the post was persisted but the job could not be
	// enqueued. The post has been moved to FAILED.
	ErrDispatch = errors.New("failed to queue post")

	ErrPostNotFound = errors.New("post not found")
	// ErrNotActionable marks a redelivered job whose post already left QUEUED.
	ErrNotActionable = errors.New("post not in QUEUED status")

	ErrDuplicateBrand      = errors.New("brand with this name already exists")
	ErrUnsupportedProvider = errors.New("invalid provider")
	ErrAccountLink         = errors.New("failed to link social account")
	ErrNoPages             = errors.New("no Facebook pages found")
	ErrKeyLimit            = errors.New("only 5 API keys can be created")
	ErrKeyNotFound         = errors.New("key doesn't exist")
)
