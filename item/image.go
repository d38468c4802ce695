package item

import (
	"weave/diagram"
	"weave/geometry"
)

// Image item layout constants.
const (
	ImageMargin        = 10
	ImageDefaultWidth  = 170
	ImageDefaultHeight = 170
)

// ImageItem is a resizable picture frame. Until an image blob resolves
// through the adapter it renders a placeholder, and a second upload
// request while one is pending is ignored.
type ImageItem struct {
	baseItem
	uploadPending bool
}

func NewImageItem(n *diagram.Node) *ImageItem {
	if n.Width <= 0 {
		n.Width = ImageDefaultWidth
	}
	if n.Height <= 0 {
		n.Height = ImageDefaultHeight
	}
	return &ImageItem{baseItem: baseItem{node: n}}
}

func (im *ImageItem) Bounds() geometry.Rect {
	return geometry.Rect{
		X: im.node.X,
		Y: im.node.Y,
		W: im.node.Width + ImageMargin,
		H: im.node.Height + ImageMargin,
	}
}

func (im *ImageItem) SocketAngles() []float64 {
	return RectSocketAngles
}

func (im *ImageItem) SocketPosition(angle float64) geometry.Point {
	b := im.Bounds()
	return rectSocketPosition(b, ImageMargin, b.W-2*ImageMargin, angle)
}

func (im *ImageItem) Contains(p geometry.Point) bool {
	return im.Bounds().Contains(p)
}

func (im *ImageItem) Resizable() bool {
	return true
}

// Resize keeps the frame's aspect ratio locked to the requested width.
func (im *ImageItem) Resize(w, h float64) {
	if w < ImageMargin*2 {
		w = ImageMargin * 2
	}
	ratio := 1.0
	if im.node.Width > 0 && im.node.Height > 0 {
		ratio = im.node.Height / im.node.Width
	}
	im.node.Width = w - ImageMargin
	im.node.Height = im.node.Width * ratio
	im.changed()
}

func (im *ImageItem) OuterSize() (float64, float64) {
	b := im.Bounds()
	return b.W, b.H
}

// ImageRef returns the stored blob reference, empty until an upload
// resolved.
func (im *ImageItem) ImageRef() string {
	return im.node.ImageRef
}

// BeginUpload marks an upload in flight. Returns false when one is
// already pending; the caller must not start a second.
func (im *ImageItem) BeginUpload() bool {
	if im.uploadPending {
		return false
	}
	im.uploadPending = true
	return true
}

// FinishUpload records the resolved blob reference. An empty ref keeps
// the placeholder.
func (im *ImageItem) FinishUpload(ref string) {
	im.uploadPending = false
	if ref == "" {
		return
	}
	im.node.ImageRef = ref
	im.changed()
}

// UploadPending reports whether an image acquisition is in flight.
func (im *ImageItem) UploadPending() bool {
	return im.uploadPending
}
