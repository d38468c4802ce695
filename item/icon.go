package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Icon item layout constants.
const (
	IconDefaultSize = 36
	IconMargin      = 12
)

// IconItem is a small pictogram node. Like the character item it exposes
// a single mobile socket on its bounding circle.
type IconItem struct {
	baseItem
	mobileAngle float64
}

func NewIconItem(n *diagram.Node) *IconItem {
	if n.Size <= 0 {
		n.Size = IconDefaultSize
	}
	return &IconItem{baseItem: baseItem{node: n}}
}

func (ic *IconItem) Bounds() geometry.Rect {
	edge := float64(ic.node.Size) + 2*IconMargin
	return geometry.Rect{X: ic.node.X, Y: ic.node.Y, W: edge, H: edge}
}

func (ic *IconItem) SocketAngles() []float64 {
	return nil
}

func (ic *IconItem) SocketPosition(angle float64) geometry.Point {
	radius := float64(ic.node.Size)/2 + IconMargin/2
	return geometry.PointOnCircle(ic.Bounds().Center(), radius, angle)
}

// MobileAngle returns the angle the mobile socket currently sits at.
func (ic *IconItem) MobileAngle() float64 {
	return ic.mobileAngle
}

// TrackPointer moves the mobile socket to face the pointer.
func (ic *IconItem) TrackPointer(p geometry.Point) {
	ic.mobileAngle = ic.Bounds().Center().AngleTo(p)
}

func (ic *IconItem) Contains(p geometry.Point) bool {
	return ic.Bounds().Contains(p)
}

func (ic *IconItem) Resizable() bool {
	return false
}

func (ic *IconItem) SetIcon(icon string) {
	ic.node.Icon = icon
	ic.changed()
}

// SetSize scales the pictogram.
func (ic *IconItem) SetSize(size int) {
	if size > 0 {
		ic.node.Size = size
	}
	ic.changed()
}
