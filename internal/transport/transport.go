// Package transport defines the chat-platform boundary used by the
// dashboard reconciler: a handful of message primitives and a three-way
// error taxonomy (not-found, forbidden, everything else transient).
package transport

import (
	"context"
	"errors"
)

// Sentinel outcomes for message operations. Any other error is transient:
// callers must not mutate stored location state because of it.
var (
	// ErrNotFound means the message or channel no longer exists.
	ErrNotFound = errors.New("message or channel not found")

	// ErrForbidden means access to the message or channel was revoked.
	// Reconciliation treats it like ErrNotFound but it is logged separately
	// because it indicates a permissions regression, not a deletion.
	ErrForbidden = errors.New("access to message or channel forbidden")
)

// Handle identifies a message on the chat platform.
type Handle struct {
	ChannelID int64
	MessageID int64
}

// IsZero reports whether the handle is unset.
func (h Handle) IsZero() bool {
	return h.ChannelID == 0 && h.MessageID == 0
}

// Messenger is the message surface consumed by the reconciler.
// Implementations classify platform errors into ErrNotFound, ErrForbidden,
// or pass them through as transient.
type Messenger interface {
	// SendMessage posts a new message and returns its handle.
	SendMessage(ctx context.Context, channelID int64, content string) (Handle, error)

	// EditMessage replaces the content of an existing message in place.
	EditMessage(ctx context.Context, h Handle, content string) error

	// DeleteMessage removes a message.
	DeleteMessage(ctx context.Context, h Handle) error

	// FetchMessage probes whether a message still exists and is accessible.
	FetchMessage(ctx context.Context, h Handle) error

	// ResolveChannel probes whether a channel exists and is accessible.
	ResolveChannel(ctx context.Context, channelID int64) error
}

// IsGone reports whether err means the remote surface is unusable and a
// replacement should be created.
func IsGone(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}
