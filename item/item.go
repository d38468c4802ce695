// Package item contains the runtime behaviors of diagram entities: per
// variant geometry, socket placement and connector routing. Items wrap
// the serialized model in package diagram; they hold no references to
// each other, only ids, so the diagram aggregate stays the single owner.
package item

import (
	"go.uber.org/zap"

	"weave/diagram"
	"weave/geometry"
)

// Canonical socket angles for rectangular nodes, east first, rotating
// counter-clockwise on screen.
var RectSocketAngles = []float64{0, 45, 90, 135, 180, 225, 270, 315}

// ResizeHandleSize is the edge of the square hit area anchored at a
// resizable item's bottom-right corner.
const ResizeHandleSize = 12.0

// Socket addresses an attachment point: the owning node plus the angle
// on its perimeter. Socket positions are always derived from the owning
// item's geometry, never stored.
type Socket struct {
	NodeID string
	Angle  float64
}

// NodeItem is the capability interface every node variant implements.
// The scene and the command stack operate only through it.
type NodeItem interface {
	// Node returns the underlying serialized node.
	Node() *diagram.Node

	// Bounds returns the outer rectangle, margins included, as a pure
	// function of position and content.
	Bounds() geometry.Rect

	// SocketAngles lists the fixed socket angles. An empty list means
	// the variant exposes a single mobile socket that follows the
	// pointer (character, icon).
	SocketAngles() []float64

	// SocketPosition returns the scene position of the socket at the
	// given angle.
	SocketPosition(angle float64) geometry.Point

	// Contains reports whether the scene point hits the item body.
	Contains(p geometry.Point) bool

	// Resizable reports whether the item exposes a resize handle.
	Resizable() bool

	// MoveTo repositions the item, clamped to non-negative coordinates.
	MoveTo(p geometry.Point)

	// SetColor updates the display color.
	SetColor(color string)

	// SetOnChange installs the hook fired after every mutation. The
	// scene uses it to rearrange incident connectors and persist.
	SetOnChange(fn func())
}

// TextEditable is implemented by variants carrying user text.
type TextEditable interface {
	Text() string
	SetText(text string)
	SetFontSettings(size *int, bold, italic, underline *bool)
}

// Resizable is implemented by variants with an adjustable outer size.
type Resizable interface {
	Resize(w, h float64)
	OuterSize() (w, h float64)
}

// New constructs the item variant for a node. An unknown type falls back
// to a generic event node rather than failing; the caller keeps going.
func New(n *diagram.Node, logger *zap.Logger) NodeItem {
	switch n.Type {
	case diagram.NodeCharacter:
		return NewCharacterItem(n)
	case diagram.NodeEvent:
		return NewEventItem(n)
	case diagram.NodeNote:
		return NewNoteItem(n)
	case diagram.NodeImage:
		return NewImageItem(n)
	case diagram.NodeIcon:
		return NewIconItem(n)
	default:
		if logger != nil {
			logger.Warn("unknown node type, falling back to event",
				zap.String("node", n.ID),
				zap.String("type", string(n.Type)))
		}
		n.Type = diagram.NodeEvent
		return NewEventItem(n)
	}
}

type baseItem struct {
	node     *diagram.Node
	onChange func()
}

func (b *baseItem) Node() *diagram.Node {
	return b.node
}

func (b *baseItem) SetOnChange(fn func()) {
	b.onChange = fn
}

func (b *baseItem) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *baseItem) MoveTo(p geometry.Point) {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	b.node.X = p.X
	b.node.Y = p.Y
	b.changed()
}

func (b *baseItem) SetColor(color string) {
	b.node.Color = color
	b.changed()
}

// rectSocketPosition maps a canonical angle onto the margin band of a
// rectangular item. innerW is the width of the nested content rect; the
// diagonal sockets sit above its right and left edges.
func rectSocketPosition(bounds geometry.Rect, margin, innerW, angle float64) geometry.Point {
	var local geometry.Point
	switch angle {
	case 0:
		local = geometry.Point{X: bounds.W - margin/2, Y: bounds.H / 2}
	case 45:
		local = geometry.Point{X: margin + innerW, Y: margin / 2}
	case 90:
		local = geometry.Point{X: bounds.W / 2, Y: margin / 2}
	case 135:
		local = geometry.Point{X: margin, Y: margin / 2}
	case 180:
		local = geometry.Point{X: margin / 2, Y: bounds.H / 2}
	case 225:
		local = geometry.Point{X: margin, Y: bounds.H - margin/2}
	case 270:
		local = geometry.Point{X: bounds.W / 2, Y: bounds.H - margin/2}
	case 315:
		local = geometry.Point{X: margin + innerW, Y: bounds.H - margin/2}
	default:
		// Off-grid angles land on the bounding circle so a stale angle
		// still yields a stable position.
		c := bounds.Center()
		return geometry.PointOnCircle(c, bounds.W/2, angle)
	}
	return geometry.Point{X: bounds.X + local.X, Y: bounds.Y + local.Y}
}

// ResizeHandle returns the hit rectangle at the item's bottom-right
// corner, or false when the item is not resizable.
func ResizeHandle(it NodeItem) (geometry.Rect, bool) {
	if !it.Resizable() {
		return geometry.Rect{}, false
	}
	b := it.Bounds()
	return geometry.Rect{
		X: b.X + b.W - ResizeHandleSize,
		Y: b.Y + b.H - ResizeHandleSize,
		W: ResizeHandleSize,
		H: ResizeHandleSize,
	}, true
}
