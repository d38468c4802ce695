package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weave/diagram"
)

func sampleDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New("d1", "board")
	require.NoError(t, d.AddNode(&diagram.Node{ID: "a", Type: diagram.NodeCharacter, X: 10, Y: 10, Size: 68}))
	require.NoError(t, d.AddNode(&diagram.Node{ID: "b", Type: diagram.NodeEvent, X: 300, Y: 10, Size: 14, Text: "x"}))
	require.NoError(t, d.AddConnector(&diagram.Connector{ID: "ab", SourceID: "a", TargetID: "b"}))
	return d
}

func TestMemoryLoadUnknownDiagram(t *testing.T) {
	m := NewMemory()
	_, err := m.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySaveStoresDeepCopy(t *testing.T) {
	m := NewMemory()
	d := sampleDiagram(t)
	require.NoError(t, m.Save(d))
	assert.Equal(t, 1, m.SaveCount)

	// Later mutation must not leak into the persisted copy.
	d.Node("b").Text = "mutated"
	saved := m.Saved("d1")
	assert.Equal(t, "x", saved.Node("b").Text)

	loaded, err := m.Load("d1")
	require.NoError(t, err)
	loaded.Node("a").X = 999
	assert.Equal(t, 10.0, m.Saved("d1").Node("a").X)
}

func TestMemoryFailSaves(t *testing.T) {
	m := NewMemory()
	m.FailSaves = true
	err := m.Save(sampleDiagram(t))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, m.SaveCount)
	assert.Nil(t, m.Saved("d1"))
}

func TestMemoryEntityResolution(t *testing.T) {
	m := NewMemory()
	m.PutEntity(DisplayEntity{ID: "c1", Name: "Ilona"})

	e, err := m.ResolveEntity("c1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Ilona", e.Name)

	// Unknown references resolve to nil, not an error: the caller shows
	// a placeholder.
	e, err = m.ResolveEntity("ghost")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMemoryImageRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.RequestImageUpload(ctx, "n1")
	assert.ErrorIs(t, err, ErrResolution, "no upload source configured")

	m.UploadFunc = func(ctx context.Context, nodeID string) ([]byte, error) {
		return []byte("blob"), nil
	}
	ref, err := m.RequestImageUpload(ctx, "n1")
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	blob, err := m.LoadImage(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), blob)

	_, err = m.LoadImage(ctx, "missing")
	assert.ErrorIs(t, err, ErrResolution)
}
