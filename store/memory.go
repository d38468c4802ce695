package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"weave/diagram"
)

// Memory is an in-process adapter used by tests and demos. Saves store
// deep copies so later scene mutations cannot leak into the "persisted"
// state.
type Memory struct {
	mu       sync.Mutex
	diagrams map[string]*diagram.Diagram
	entities map[string]DisplayEntity
	images   map[string][]byte

	// SaveCount tallies Save calls; scenario tests assert on it.
	SaveCount int

	// FailSaves makes every Save return ErrPersistence.
	FailSaves bool

	// UploadFunc, when set, backs RequestImageUpload. Unset requests
	// fail with ErrResolution.
	UploadFunc func(ctx context.Context, nodeID string) ([]byte, error)
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{
		diagrams: make(map[string]*diagram.Diagram),
		entities: make(map[string]DisplayEntity),
		images:   make(map[string][]byte),
	}
}

func (m *Memory) Load(diagramID string) (*diagram.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.diagrams[diagramID]
	if !ok {
		return nil, fmt.Errorf("%w: diagram %s", ErrNotFound, diagramID)
	}
	return d.Clone(), nil
}

func (m *Memory) Save(d *diagram.Diagram) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCount++
	if m.FailSaves {
		return fmt.Errorf("%w: diagram %s", ErrPersistence, d.ID)
	}
	m.diagrams[d.ID] = d.Clone()
	return nil
}

// Saved returns the last persisted copy of a diagram, or nil.
func (m *Memory) Saved(diagramID string) *diagram.Diagram {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diagrams[diagramID]
}

// PutEntity registers a resolvable external entity.
func (m *Memory) PutEntity(e DisplayEntity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[e.ID] = e
}

func (m *Memory) ResolveEntity(ref string) (*DisplayEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[ref]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) RequestImageUpload(ctx context.Context, nodeID string) (string, error) {
	if m.UploadFunc == nil {
		return "", fmt.Errorf("%w: no upload source", ErrResolution)
	}
	blob, err := m.UploadFunc(ctx, nodeID)
	if err != nil {
		return "", err
	}
	ref := uuid.NewString()
	m.mu.Lock()
	m.images[ref] = blob
	m.mu.Unlock()
	return ref, nil
}

func (m *Memory) LoadImage(ctx context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.images[ref]
	if !ok {
		return nil, fmt.Errorf("%w: image %s", ErrResolution, ref)
	}
	return blob, nil
}
