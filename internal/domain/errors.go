package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrLikeDebounced  = errors.New("like toggled too quickly")
	ErrMissingPeer    = errors.New("missing 'to'")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrEmptyComment   = errors.New("comment is empty")
	ErrCommentTooLong = errors.New("comment is too long")
)
