// Package store defines the persistence adapter contract the diagram
// engine calls outward, plus an in-memory and a SQLite implementation.
// The engine is optimistic: a failed save keeps the in-memory change and
// surfaces the error to the host, it never rolls back the undo stack.
package store

import (
	"context"
	"errors"

	"weave/diagram"
)

var (
	// ErrPersistence wraps adapter save failures.
	ErrPersistence = errors.New("store: persistence failure")

	// ErrResolution marks an entity or image reference that no longer
	// resolves. Callers render a placeholder, nothing propagates.
	ErrResolution = errors.New("store: resolution failure")

	// ErrNotFound marks a missing diagram.
	ErrNotFound = errors.New("store: not found")
)

// DisplayEntity is the projection of an external entity (a character,
// usually) that a node renders.
type DisplayEntity struct {
	ID        string
	Name      string
	AvatarRef string
}

// Adapter is the outward persistence contract. All calls are
// fire-and-forget from the engine's perspective except image
// acquisition, which is awaited asynchronously.
type Adapter interface {
	// Load returns the stored diagram, or ErrNotFound.
	Load(diagramID string) (*diagram.Diagram, error)

	// Save persists the full diagram. Coalescing and batching are the
	// adapter's concern; the engine calls once per mutation.
	Save(d *diagram.Diagram) error

	// ResolveEntity projects an external entity reference. Returns
	// (nil, nil) or ErrResolution when the entity is gone.
	ResolveEntity(ref string) (*DisplayEntity, error)

	// RequestImageUpload acquires an image for the node, typically by
	// prompting the user. Returns the stored blob reference.
	RequestImageUpload(ctx context.Context, nodeID string) (string, error)

	// LoadImage fetches a stored image blob.
	LoadImage(ctx context.Context, ref string) ([]byte, error)
}
