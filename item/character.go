package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Character item geometry: a fixed square avatar inside a margin band,
// with a single mobile socket riding the circle between them.
const (
	CharacterAvatarSize = 68
	CharacterMargin     = 20
)

// CharacterItem displays an external character entity. It exposes one
// continuously movable socket that tracks the pointer angle while the
// item is hovered or selected during link drawing.
type CharacterItem struct {
	baseItem
	mobileAngle float64
}

// NewCharacterItem wraps a character node. A zero size takes the default
// avatar edge.
func NewCharacterItem(n *diagram.Node) *CharacterItem {
	if n.Size <= 0 {
		n.Size = CharacterAvatarSize
	}
	return &CharacterItem{baseItem: baseItem{node: n}}
}

func (c *CharacterItem) Bounds() geometry.Rect {
	edge := float64(c.node.Size) + 2*CharacterMargin
	return geometry.Rect{X: c.node.X, Y: c.node.Y, W: edge, H: edge}
}

// SocketAngles is empty: the character socket is mobile.
func (c *CharacterItem) SocketAngles() []float64 {
	return nil
}

func (c *CharacterItem) outerRadius() float64 {
	return float64(c.node.Size)/2 + CharacterMargin/2
}

func (c *CharacterItem) SocketPosition(angle float64) geometry.Point {
	return geometry.PointOnCircle(c.Bounds().Center(), c.outerRadius(), angle)
}

// MobileAngle returns the angle the mobile socket currently sits at.
func (c *CharacterItem) MobileAngle() float64 {
	return c.mobileAngle
}

// TrackPointer moves the mobile socket to face the pointer. Purely a
// presentation update; it does not mark the node changed.
func (c *CharacterItem) TrackPointer(p geometry.Point) {
	c.mobileAngle = c.Bounds().Center().AngleTo(p)
}

func (c *CharacterItem) Contains(p geometry.Point) bool {
	return c.Bounds().Contains(p)
}

func (c *CharacterItem) Resizable() bool {
	return false
}

// SetEntityRef repoints the item at another external character.
func (c *CharacterItem) SetEntityRef(ref string) {
	c.node.EntityRef = ref
	c.changed()
}
