package domain

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrInvalidTask          = errors.New("invalid task")
)
