package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Event item layout constants. The text sits inside a padded capsule,
// which in turn sits inside the socket margin band.
const (
	EventMargin      = 30
	EventPadding     = 20
	eventPlaceholder = "New event"
	iconTextRatio    = 1.25
)

// EventItem is the generic text node: a capsule with up to eight fixed
// sockets. Subtypes (goal, conflict, ...) only change icon, color and
// initial size, never the geometry rules.
type EventItem struct {
	baseItem
}

func NewEventItem(n *diagram.Node) *EventItem {
	if n.Size <= 0 {
		n.Size = DefaultFontSize
	}
	return &EventItem{baseItem: baseItem{node: n}}
}

func (e *EventItem) displayText() string {
	if e.node.Text == "" {
		return eventPlaceholder
	}
	return e.node.Text
}

func (e *EventItem) iconSize() float64 {
	if e.node.Icon == "" {
		return 0
	}
	_, th := MeasureText(e.displayText(), e.node.Size, e.node.Bold)
	return th * iconTextRatio
}

func (e *EventItem) Bounds() geometry.Rect {
	tw, th := MeasureText(e.displayText(), e.node.Size, e.node.Bold)
	icon := e.iconSize()
	return geometry.Rect{
		X: e.node.X,
		Y: e.node.Y,
		W: tw + icon + 2*EventMargin + 2*EventPadding,
		H: th + 2*EventMargin + 2*EventPadding,
	}
}

// innerWidth is the width of the nested capsule rect.
func (e *EventItem) innerWidth() float64 {
	tw, _ := MeasureText(e.displayText(), e.node.Size, e.node.Bold)
	return tw + e.iconSize() + 2*EventPadding
}

func (e *EventItem) SocketAngles() []float64 {
	return RectSocketAngles
}

func (e *EventItem) SocketPosition(angle float64) geometry.Point {
	return rectSocketPosition(e.Bounds(), EventMargin, e.innerWidth(), angle)
}

func (e *EventItem) Contains(p geometry.Point) bool {
	return e.Bounds().Contains(p)
}

func (e *EventItem) Resizable() bool {
	return false
}

func (e *EventItem) Text() string {
	return e.node.Text
}

func (e *EventItem) SetText(text string) {
	e.node.Text = text
	e.changed()
}

func (e *EventItem) SetIcon(icon string) {
	e.node.Icon = icon
	e.changed()
}

// SetFontSettings updates any subset of the font attributes. Nil fields
// are left untouched.
func (e *EventItem) SetFontSettings(size *int, bold, italic, underline *bool) {
	if size != nil {
		e.node.Size = *size
	}
	if bold != nil {
		e.node.Bold = *bold
	}
	if italic != nil {
		e.node.Italic = *italic
	}
	if underline != nil {
		e.node.Underline = *underline
	}
	e.changed()
}

// SetSize sets the font size alone; the mergeable size command uses it.
func (e *EventItem) SetSize(size int) {
	e.node.Size = size
	e.changed()
}

// SetItemType converts the node in place: type, subtype, icon, color and
// size are replaced while id, position and text survive.
func (e *EventItem) SetItemType(subtype, icon, color string, size int) {
	e.node.Subtype = subtype
	e.node.Icon = icon
	e.node.Color = color
	if size > 0 {
		e.node.Size = size
	}
	e.changed()
}
