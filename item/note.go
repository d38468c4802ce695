package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Note item layout constants.
const (
	NoteMargin        = 10
	NoteDefaultWidth  = 190
	NoteDefaultHeight = 60
)

// NoteItem is a resizable free-text card with eight fixed sockets on its
// margin band.
type NoteItem struct {
	baseItem
}

func NewNoteItem(n *diagram.Node) *NoteItem {
	if n.Size <= 0 {
		n.Size = DefaultFontSize
	}
	if n.Width <= 0 {
		n.Width = NoteDefaultWidth
	}
	if n.Height <= 0 {
		n.Height = NoteDefaultHeight
	}
	return &NoteItem{baseItem: baseItem{node: n}}
}

func (no *NoteItem) Bounds() geometry.Rect {
	return geometry.Rect{
		X: no.node.X,
		Y: no.node.Y,
		W: no.node.Width + NoteMargin,
		H: no.node.Height + NoteMargin,
	}
}

func (no *NoteItem) SocketAngles() []float64 {
	return RectSocketAngles
}

func (no *NoteItem) SocketPosition(angle float64) geometry.Point {
	b := no.Bounds()
	return rectSocketPosition(b, NoteMargin, b.W-2*NoteMargin, angle)
}

func (no *NoteItem) Contains(p geometry.Point) bool {
	return no.Bounds().Contains(p)
}

func (no *NoteItem) Resizable() bool {
	return true
}

// Resize sets the outer size; the stored content size excludes the
// margin band.
func (no *NoteItem) Resize(w, h float64) {
	if w < NoteMargin*2 {
		w = NoteMargin * 2
	}
	if h < NoteMargin*2 {
		h = NoteMargin * 2
	}
	no.node.Width = w - NoteMargin
	no.node.Height = h - NoteMargin
	no.changed()
}

// OuterSize returns the current outer width and height.
func (no *NoteItem) OuterSize() (float64, float64) {
	b := no.Bounds()
	return b.W, b.H
}

func (no *NoteItem) Text() string {
	return no.node.Text
}

func (no *NoteItem) SetText(text string) {
	no.node.Text = text
	no.changed()
}

func (no *NoteItem) SetFontSettings(size *int, bold, italic, underline *bool) {
	if size != nil {
		no.node.Size = *size
	}
	if bold != nil {
		no.node.Bold = *bold
	}
	if italic != nil {
		no.node.Italic = *italic
	}
	if underline != nil {
		no.node.Underline = *underline
	}
	no.changed()
}
