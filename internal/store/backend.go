package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Read when no document has been written yet.
var ErrNotFound = errors.New("document not found")

// Backend persists the serialized document as a single unit.
type Backend interface {
	// Read returns the last written document bytes or ErrNotFound.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document. A failed write must leave the
	// previous document intact.
	Write(ctx context.Context, body []byte) error
	// Preserve keeps a copy of unreadable bytes and reports where they went.
	Preserve(ctx context.Context, body []byte) (string, error)
}
