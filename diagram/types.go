// Package diagram contains the serialized node-and-connector model and the
// aggregate that owns it. The aggregate is the unit of persistence: one
// Diagram per editor instance.
package diagram

// NodeType identifies a node variant. The set is closed; unknown values
// normalize to NodeEvent at item construction time.
type NodeType string

const (
	NodeCharacter NodeType = "character"
	NodeEvent     NodeType = "event"
	NodeNote      NodeType = "note"
	NodeImage     NodeType = "image"
	NodeIcon      NodeType = "icon"
)

// Event node subtypes.
const (
	SubtypeGoal          = "goal"
	SubtypeConflict      = "conflict"
	SubtypeBackstory     = "backstory"
	SubtypeDisturbance   = "disturbance"
	SubtypeQuestion      = "question"
	SubtypeSetup         = "setup"
	SubtypeForeshadowing = "foreshadowing"
)

// PenStyle is the stroke style of a connector.
type PenStyle string

const (
	PenSolid PenStyle = "solid"
	PenDash  PenStyle = "dash"
	PenDot   PenStyle = "dot"
)

// DefaultPenWidth is the stroke width a new connector starts with.
const DefaultPenWidth = 2

// Node is a positioned, typed visual entity. Width and Height are only
// meaningful for resizable variants (note, image); Size is the font size
// for text-bearing variants and the avatar/icon edge for the rest.
type Node struct {
	ID        string   `json:"id"`
	Type      NodeType `json:"type"`
	Subtype   string   `json:"subtype,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Size      int      `json:"size"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Color     string   `json:"color,omitempty"`
	Icon      string   `json:"icon,omitempty"`
	Text      string   `json:"text,omitempty"`
	Bold      bool     `json:"bold,omitempty"`
	Italic    bool     `json:"italic,omitempty"`
	Underline bool     `json:"underline,omitempty"`

	// EntityRef is a weak reference to an external entity (e.g. a
	// character id). The engine never owns the entity, only displays a
	// projection resolved through the persistence adapter.
	EntityRef string `json:"entityRef,omitempty"`

	// ImageRef identifies the stored image blob for image nodes.
	ImageRef string `json:"imageRef,omitempty"`

	Transparent bool `json:"transparent,omitempty"`
}

// Connector is a directed, styled edge between two sockets. Sockets are
// addressed by (node id, angle); no live object references are stored.
// CPX/CPY, when present, are the quadratic control point in the
// connector's local coordinate space, which is pinned to the source
// socket so control-point drags commute with node movement.
type Connector struct {
	ID          string   `json:"id"`
	SourceID    string   `json:"sourceNodeId"`
	SourceAngle float64  `json:"sourceAngle"`
	TargetID    string   `json:"targetNodeId"`
	TargetAngle float64  `json:"targetAngle"`
	Pen         PenStyle `json:"penStyle"`
	PenWidth    int      `json:"penWidth"`
	Color       string   `json:"color,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Text        string   `json:"text,omitempty"`
	CPX         *float64 `json:"cpX,omitempty"`
	CPY         *float64 `json:"cpY,omitempty"`
}

// Curved reports whether the connector has an explicit control point.
func (c *Connector) Curved() bool {
	return c.CPX != nil && c.CPY != nil
}

// SetControlPoint pins the quadratic control point in local coordinates.
func (c *Connector) SetControlPoint(x, y float64) {
	c.CPX = &x
	c.CPY = &y
}

// ClearControlPoint reverts the connector to default routing.
func (c *Connector) ClearControlPoint() {
	c.CPX = nil
	c.CPY = nil
}

// Touches reports whether the connector has an endpoint on the node.
func (c *Connector) Touches(nodeID string) bool {
	return c.SourceID == nodeID || c.TargetID == nodeID
}

func cloneNode(n *Node) *Node {
	cp := *n
	return &cp
}

func cloneConnector(c *Connector) *Connector {
	cp := *c
	if c.CPX != nil {
		x := *c.CPX
		cp.CPX = &x
	}
	if c.CPY != nil {
		y := *c.CPY
		cp.CPY = &y
	}
	return &cp
}
