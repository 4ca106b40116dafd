package chat

import "errors"

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrEmptyMessage     = errors.New("message text is empty")
	ErrMessageTooLong   = errors.New("message text exceeds 2000 characters")
	ErrNotParticipant   = errors.New("not a participant of this conversation")
)
