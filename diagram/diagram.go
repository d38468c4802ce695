package diagram

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Error taxonomy for structural operations. All are recoverable: callers
// skip or reject the offending item, they never unwind the editor.
var (
	// ErrInvalidReference marks a connector or lookup that names a node
	// absent from the diagram.
	ErrInvalidReference = errors.New("diagram: invalid reference")

	// ErrIllegalLink marks an attempted connector between two sockets of
	// the same node.
	ErrIllegalLink = errors.New("diagram: illegal link")

	// ErrDuplicateID marks an insert that reuses an existing id.
	ErrDuplicateID = errors.New("diagram: duplicate id")
)

// Diagram owns the full node and connector collections for one editor
// instance. Node order is z-order for overlap resolution. All lookups go
// through flat id indexes rather than live cross-references, so the
// socket -> connector -> socket cycles of the visual model never exist
// at the data layer.
type Diagram struct {
	ID         string       `json:"id"`
	Title      string       `json:"title,omitempty"`
	Nodes      []*Node      `json:"nodes"`
	Connectors []*Connector `json:"connectors"`

	loaded    bool
	nodeIndex map[string]*Node
	connIndex map[string]*Connector
}

// New creates an empty diagram.
func New(id, title string) *Diagram {
	d := &Diagram{ID: id, Title: title}
	d.reindex()
	return d
}

// Loader hydrates a diagram from persistent storage.
type Loader interface {
	Load(diagramID string) (*Diagram, error)
}

// Hydrate populates the diagram from the loader on first use. A second
// call is a no-op.
func (d *Diagram) Hydrate(loader Loader) error {
	if d.loaded {
		return nil
	}
	loaded, err := loader.Load(d.ID)
	if err != nil {
		return fmt.Errorf("hydrating diagram %s: %w", d.ID, err)
	}
	if loaded != nil {
		if loaded.Title != "" {
			d.Title = loaded.Title
		}
		d.Nodes = loaded.Nodes
		d.Connectors = loaded.Connectors
	}
	d.reindex()
	d.loaded = true
	return nil
}

// Loaded reports whether the diagram has been hydrated.
func (d *Diagram) Loaded() bool {
	return d.loaded
}

// MarkLoaded flags a freshly built diagram as hydrated, skipping the
// loader on first use.
func (d *Diagram) MarkLoaded() {
	if d.nodeIndex == nil {
		d.reindex()
	}
	d.loaded = true
}

func (d *Diagram) reindex() {
	d.nodeIndex = make(map[string]*Node, len(d.Nodes))
	for _, n := range d.Nodes {
		d.nodeIndex[n.ID] = n
	}
	d.connIndex = make(map[string]*Connector, len(d.Connectors))
	for _, c := range d.Connectors {
		d.connIndex[c.ID] = c
	}
}

// Node returns the node with the given id, or nil.
func (d *Diagram) Node(id string) *Node {
	if d.nodeIndex == nil {
		d.reindex()
	}
	return d.nodeIndex[id]
}

// Connector returns the connector with the given id, or nil.
func (d *Diagram) Connector(id string) *Connector {
	if d.connIndex == nil {
		d.reindex()
	}
	return d.connIndex[id]
}

// ConnectorsAt returns all connectors with an endpoint on the node, in
// insertion order.
func (d *Diagram) ConnectorsAt(nodeID string) []*Connector {
	var out []*Connector
	for _, c := range d.Connectors {
		if c.Touches(nodeID) {
			out = append(out, c)
		}
	}
	return out
}

// AddNode appends a node. Position is clamped to non-negative
// coordinates.
func (d *Diagram) AddNode(n *Node) error {
	if d.Node(n.ID) != nil {
		return fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
	}
	if n.X < 0 {
		n.X = 0
	}
	if n.Y < 0 {
		n.Y = 0
	}
	d.Nodes = append(d.Nodes, n)
	d.nodeIndex[n.ID] = n
	return nil
}

// RemoveNode removes the node and cascades to every connector touching
// its sockets. The removed connectors are returned so the caller can
// capture them for undo.
func (d *Diagram) RemoveNode(id string) (*Node, []*Connector, error) {
	n := d.Node(id)
	if n == nil {
		return nil, nil, fmt.Errorf("%w: node %s", ErrInvalidReference, id)
	}
	var removed []*Connector
	kept := d.Connectors[:0]
	for _, c := range d.Connectors {
		if c.Touches(id) {
			removed = append(removed, c)
			delete(d.connIndex, c.ID)
		} else {
			kept = append(kept, c)
		}
	}
	d.Connectors = kept
	for i, cand := range d.Nodes {
		if cand.ID == id {
			d.Nodes = append(d.Nodes[:i], d.Nodes[i+1:]...)
			break
		}
	}
	delete(d.nodeIndex, id)
	return n, removed, nil
}

// AddConnector appends a connector after validating both endpoints exist
// and belong to distinct nodes.
func (d *Diagram) AddConnector(c *Connector) error {
	if d.Connector(c.ID) != nil {
		return fmt.Errorf("%w: connector %s", ErrDuplicateID, c.ID)
	}
	if d.Node(c.SourceID) == nil {
		return fmt.Errorf("%w: source node %s", ErrInvalidReference, c.SourceID)
	}
	if d.Node(c.TargetID) == nil {
		return fmt.Errorf("%w: target node %s", ErrInvalidReference, c.TargetID)
	}
	if c.SourceID == c.TargetID {
		return fmt.Errorf("%w: node %s", ErrIllegalLink, c.SourceID)
	}
	if c.Pen == "" {
		c.Pen = PenSolid
	}
	if c.PenWidth == 0 {
		c.PenWidth = DefaultPenWidth
	}
	d.Connectors = append(d.Connectors, c)
	d.connIndex[c.ID] = c
	return nil
}

// RemoveConnector removes the connector with the given id.
func (d *Diagram) RemoveConnector(id string) (*Connector, error) {
	c := d.Connector(id)
	if c == nil {
		return nil, fmt.Errorf("%w: connector %s", ErrInvalidReference, id)
	}
	for i, cand := range d.Connectors {
		if cand.ID == id {
			d.Connectors = append(d.Connectors[:i], d.Connectors[i+1:]...)
			break
		}
	}
	delete(d.connIndex, id)
	return c, nil
}

// Prune drops connectors with dangling node references, logging each.
// Returns the number dropped. Used after a partial load; the editor keeps
// running on whatever survived.
func (d *Diagram) Prune(logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.nodeIndex == nil {
		d.reindex()
	}
	kept := d.Connectors[:0]
	dropped := 0
	for _, c := range d.Connectors {
		if d.Node(c.SourceID) == nil || d.Node(c.TargetID) == nil || c.SourceID == c.TargetID {
			logger.Warn("dropping dangling connector",
				zap.String("connector", c.ID),
				zap.String("source", c.SourceID),
				zap.String("target", c.TargetID))
			delete(d.connIndex, c.ID)
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	d.Connectors = kept
	return dropped
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	clone := &Diagram{
		ID:         d.ID,
		Title:      d.Title,
		Nodes:      make([]*Node, len(d.Nodes)),
		Connectors: make([]*Connector, len(d.Connectors)),
		loaded:     d.loaded,
	}
	for i, n := range d.Nodes {
		clone.Nodes[i] = cloneNode(n)
	}
	for i, c := range d.Connectors {
		clone.Connectors[i] = cloneConnector(c)
	}
	clone.reindex()
	return clone
}

// Equal compares two diagrams by id-keyed structure: same node set and
// same connector set, field by field. Order is ignored for lookup but
// ids must match one to one.
func (d *Diagram) Equal(o *Diagram) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.ID != o.ID || len(d.Nodes) != len(o.Nodes) || len(d.Connectors) != len(o.Connectors) {
		return false
	}
	for _, n := range d.Nodes {
		on := o.Node(n.ID)
		if on == nil || *on != *n {
			return false
		}
	}
	for _, c := range d.Connectors {
		oc := o.Connector(c.ID)
		if oc == nil {
			return false
		}
		if !connectorEqual(c, oc) {
			return false
		}
	}
	return true
}

func connectorEqual(a, b *Connector) bool {
	if a.ID != b.ID || a.SourceID != b.SourceID || a.TargetID != b.TargetID ||
		a.SourceAngle != b.SourceAngle || a.TargetAngle != b.TargetAngle ||
		a.Pen != b.Pen || a.PenWidth != b.PenWidth || a.Color != b.Color ||
		a.Icon != b.Icon || a.Text != b.Text {
		return false
	}
	if (a.CPX == nil) != (b.CPX == nil) || (a.CPY == nil) != (b.CPY == nil) {
		return false
	}
	if a.CPX != nil && (*a.CPX != *b.CPX || *a.CPY != *b.CPY) {
		return false
	}
	return true
}

// Marshal serializes the diagram as indented JSON.
func (d *Diagram) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal deserializes a diagram and rebuilds its id indexes.
func Unmarshal(data []byte) (*Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing diagram: %w", err)
	}
	d.reindex()
	return &d, nil
}
