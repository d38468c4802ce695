package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Connector routing constants. A default-curved connector degrades to a
// straight segment when its endpoints are close enough that the curve
// would look like noise.
const (
	proximityHeight = 5.0
	proximityWidth  = 100.0

	// Tangent sample position near the end of a curve, used for the
	// arrowhead rotation.
	arrowTangentT = 0.98

	// ConnectorIconSize is the edge of the icon badge centered on the
	// path.
	ConnectorIconSize = 32.0
	labelGap          = 4.0
)

// PathLayout is the drawable result of a rearrange. Start is the
// connector's own position (pinned to the source socket); End and
// Control are in local coordinates relative to Start.
type PathLayout struct {
	Start      geometry.Point
	End        geometry.Point
	Control    geometry.Point
	Linear     bool
	ArrowAngle float64
	IconPos    geometry.Point // scene coordinates, zero unless HasIcon
	LabelPos   geometry.Point // scene coordinates, zero unless HasLabel
	HasIcon    bool
	HasLabel   bool
}

// SocketResolver turns a socket address into its current scene position.
// The second result is false when the owning node is missing.
type SocketResolver func(s Socket) (geometry.Point, bool)

// ConnectorItem keeps a connector's drawable path current as its
// endpoints move.
type ConnectorItem struct {
	conn     *diagram.Connector
	layout   PathLayout
	onChange func()
}

func NewConnectorItem(c *diagram.Connector) *ConnectorItem {
	return &ConnectorItem{conn: c}
}

func (ci *ConnectorItem) Connector() *diagram.Connector {
	return ci.conn
}

func (ci *ConnectorItem) Source() Socket {
	return Socket{NodeID: ci.conn.SourceID, Angle: ci.conn.SourceAngle}
}

func (ci *ConnectorItem) Target() Socket {
	return Socket{NodeID: ci.conn.TargetID, Angle: ci.conn.TargetAngle}
}

// SetOnChange installs the mutation hook.
func (ci *ConnectorItem) SetOnChange(fn func()) {
	ci.onChange = fn
}

func (ci *ConnectorItem) changed() {
	if ci.onChange != nil {
		ci.onChange()
	}
}

// Layout returns the path computed by the last Rearrange.
func (ci *ConnectorItem) Layout() PathLayout {
	return ci.layout
}

// Rearrange recomputes the drawable path. Missing endpoints leave the
// previous layout untouched; the dangling connector is the diagram's
// problem to prune, not the router's.
func (ci *ConnectorItem) Rearrange(resolve SocketResolver) {
	start, ok := resolve(ci.Source())
	if !ok {
		return
	}
	endScene, ok := resolve(ci.Target())
	if !ok {
		return
	}

	end := endScene.Sub(start)
	layout := PathLayout{Start: start, End: end}

	switch {
	case ci.conn.Curved():
		layout.Control = geometry.Point{X: *ci.conn.CPX, Y: *ci.conn.CPY}
	case geometry.Abs(end.Y) < proximityHeight || geometry.Abs(end.X) < proximityWidth:
		layout.Linear = true
	default:
		layout.Control = defaultControlPoint(ci.conn.SourceAngle, end)
	}

	var mid geometry.Point
	if layout.Linear {
		layout.ArrowAngle = start.AngleTo(endScene)
		mid = geometry.Lerp(start, endScene, 0.5)
	} else {
		curve := geometry.QuadBezier{Control: layout.Control, End: end}
		layout.ArrowAngle = curve.TangentAngle(arrowTangentT)
		mid = curve.Midpoint().Add(start)
	}

	if ci.conn.Icon != "" {
		layout.HasIcon = true
		layout.IconPos = mid
	}
	if ci.conn.Text != "" {
		layout.HasLabel = true
		layout.LabelPos = mid
		if layout.HasIcon {
			layout.LabelPos.Y += ConnectorIconSize/2 + labelGap
		}
	}

	ci.layout = layout
}

// defaultControlPoint mirrors the hand-tuned curve of the original
// editor: connectors leaving a top socket bow through the vertical
// midline, the rest bow above the chord.
func defaultControlPoint(sourceAngle float64, end geometry.Point) geometry.Point {
	if sourceAngle <= 180 {
		return geometry.Point{X: 0, Y: end.Y / 2}
	}
	return geometry.Point{X: end.X / 2, Y: -end.Y / 2}
}

// EffectiveColor resolves the display color: an explicit override wins,
// otherwise the target node's color shines through and keeps tracking it.
func (ci *ConnectorItem) EffectiveColor(targetColor string) string {
	if ci.conn.Color != "" {
		return ci.conn.Color
	}
	return targetColor
}

func (ci *ConnectorItem) SetPenStyle(pen diagram.PenStyle) {
	ci.conn.Pen = pen
	ci.changed()
}

func (ci *ConnectorItem) SetPenWidth(width int) {
	ci.conn.PenWidth = width
	ci.changed()
}

// SetColor sets an explicit color override. Setting the empty string
// reverts to inheriting the target node's color.
func (ci *ConnectorItem) SetColor(color string) {
	ci.conn.Color = color
	ci.changed()
}

func (ci *ConnectorItem) SetText(text string) {
	ci.conn.Text = text
	ci.changed()
}

func (ci *ConnectorItem) SetIcon(icon string) {
	ci.conn.Icon = icon
	ci.changed()
}

// SetControlPoint pins the curve's control point, in local coordinates
// relative to the source socket.
func (ci *ConnectorItem) SetControlPoint(p geometry.Point) {
	ci.conn.SetControlPoint(p.X, p.Y)
	ci.changed()
}

// ClearControlPoint drops the pin and reverts to default routing.
func (ci *ConnectorItem) ClearControlPoint() {
	ci.conn.ClearControlPoint()
	ci.changed()
}
