package scene

import (
	"context"

	"go.uber.org/zap"

	"weave/command"
	"weave/diagram"
	"weave/geometry"
	"weave/item"
	"weave/store"
)

// Property operations. Each performs the mutation immediately (which
// rearranges connectors and persists through the item's change hook) and
// records a command; text and size edits merge into one undo entry per
// editing session.

// EditText replaces a node's text.
func (s *Scene) EditText(nodeID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("edit text")
	te, ok := s.items[nodeID].(item.TextEditable)
	if !ok {
		return
	}
	old := te.Text()
	if old == text {
		return
	}
	te.SetText(text)
	s.stack.Push(command.NewProperty(nodeID, command.KindText, te.SetText, old, text))
}

// SetFontSize changes a node's font size.
func (s *Scene) SetFontSize(nodeID string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set font size")
	te, ok := s.items[nodeID].(item.TextEditable)
	if !ok {
		return
	}
	old := s.items[nodeID].Node().Size
	if old == size {
		return
	}
	set := func(v int) { te.SetFontSettings(&v, nil, nil, nil) }
	set(size)
	s.stack.Push(command.NewProperty(nodeID, command.KindSize, set, old, size))
}

// SetFontStyle toggles any subset of bold/italic/underline.
func (s *Scene) SetFontStyle(nodeID string, bold, italic, underline *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set font style")
	te, ok := s.items[nodeID].(item.TextEditable)
	if !ok {
		return
	}
	n := s.items[nodeID].Node()
	oldBold, oldItalic, oldUnderline := n.Bold, n.Italic, n.Underline
	te.SetFontSettings(nil, bold, italic, underline)
	newBold, newItalic, newUnderline := n.Bold, n.Italic, n.Underline
	s.stack.Push(command.NewFunc(
		func() { te.SetFontSettings(nil, &newBold, &newItalic, &newUnderline) },
		func() { te.SetFontSettings(nil, &oldBold, &oldItalic, &oldUnderline) },
	))
}

// SetNodeColor recolors a node. Connectors without a color override pick
// the change up on their next rearrange.
func (s *Scene) SetNodeColor(nodeID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set node color")
	it := s.items[nodeID]
	if it == nil {
		return
	}
	old := it.Node().Color
	if old == color {
		return
	}
	it.SetColor(color)
	s.stack.Push(command.NewFunc(
		func() { it.SetColor(color) },
		func() { it.SetColor(old) },
	))
}

// retypeState captures the fields a type conversion replaces.
type retypeState struct {
	Type    diagram.NodeType
	Subtype string
	Icon    string
	Color   string
	Size    int
}

// Retype converts a node in place: type, subtype, icon, color and size
// change, id and position survive. Derived geometry is rebuilt from
// scratch.
func (s *Scene) Retype(nodeID string, t diagram.NodeType, subtype string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("retype")
	n := s.d.Node(nodeID)
	if n == nil {
		return
	}
	old := retypeState{Type: n.Type, Subtype: n.Subtype, Icon: n.Icon, Color: n.Color, Size: n.Size}
	next := retypeState{Type: t, Subtype: subtype, Icon: s.icons.SubtypeIcon(subtype)}
	s.applyRetype(nodeID, next)
	s.stack.Push(command.NewFunc(
		func() { s.applyRetype(nodeID, next) },
		func() { s.applyRetype(nodeID, old) },
	))
}

func (s *Scene) applyRetype(nodeID string, st retypeState) {
	n := s.d.Node(nodeID)
	if n == nil {
		return
	}
	n.Type = st.Type
	n.Subtype = st.Subtype
	n.Icon = st.Icon
	n.Color = st.Color
	n.Size = st.Size
	// Rebuilding the item resets every derived cache and re-normalizes
	// defaults for the new variant.
	delete(s.items, nodeID)
	s.attachNode(n)
	s.rearrangeNode(nodeID)
	s.persist()
}

// MoveNode repositions a node programmatically, as one undoable move.
func (s *Scene) MoveNode(nodeID string, p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("move node")
	it := s.items[nodeID]
	if it == nil {
		return
	}
	n := it.Node()
	old := geometry.Point{X: n.X, Y: n.Y}
	if old == p {
		return
	}
	it.MoveTo(p)
	s.stack.Push(command.NewFunc(
		func() { it.MoveTo(p) },
		func() { it.MoveTo(old) },
	))
	s.events.itemMoved(it)
}

// Connector style operations.

// SetConnectorPen changes the stroke style.
func (s *Scene) SetConnectorPen(connID string, pen diagram.PenStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set connector pen")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	old := ci.Connector().Pen
	if old == pen {
		return
	}
	ci.SetPenStyle(pen)
	s.stack.Push(command.NewFunc(
		func() { ci.SetPenStyle(pen) },
		func() { ci.SetPenStyle(old) },
	))
}

// SetConnectorWidth changes the stroke width.
func (s *Scene) SetConnectorWidth(connID string, width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set connector width")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	old := ci.Connector().PenWidth
	if old == width {
		return
	}
	set := func(v int) { ci.SetPenWidth(v) }
	set(width)
	s.stack.Push(command.NewProperty(connID, command.KindSize, set, old, width))
}

// SetConnectorColor sets an explicit color override; empty reverts to
// inheriting the target node's color.
func (s *Scene) SetConnectorColor(connID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set connector color")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	old := ci.Connector().Color
	if old == color {
		return
	}
	ci.SetColor(color)
	s.stack.Push(command.NewFunc(
		func() { ci.SetColor(color) },
		func() { ci.SetColor(old) },
	))
}

// SetConnectorText edits the connector label, merging per session.
func (s *Scene) SetConnectorText(connID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set connector text")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	old := ci.Connector().Text
	if old == text {
		return
	}
	ci.SetText(text)
	s.stack.Push(command.NewProperty(connID, command.KindText, ci.SetText, old, text))
}

// SetConnectorIcon changes the icon badge on the connector.
func (s *Scene) SetConnectorIcon(connID, icon string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("set connector icon")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	old := ci.Connector().Icon
	if old == icon {
		return
	}
	ci.SetIcon(icon)
	s.stack.Push(command.NewFunc(
		func() { ci.SetIcon(icon) },
		func() { ci.SetIcon(old) },
	))
}

// MoveControlPoint drags a connector's curve control point. The point is
// local to the source socket, so it commutes with node movement; drags
// merge into one undo entry. A connector that had no pin before the drag
// loses it again on undo instead of keeping a stale explicit point.
func (s *Scene) MoveControlPoint(connID string, p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("move control point")
	ci := s.conns[connID]
	if ci == nil {
		return
	}
	var old *geometry.Point
	if c := ci.Connector(); c.Curved() {
		old = &geometry.Point{X: *c.CPX, Y: *c.CPY}
	}
	ci.SetControlPoint(p)
	next := p
	set := func(cp *geometry.Point) {
		if cp == nil {
			ci.ClearControlPoint()
			return
		}
		ci.SetControlPoint(*cp)
	}
	s.stack.Push(command.NewProperty(connID, command.KindMove, set, old, &next))
}

// ResolveEntity projects a node's external entity reference. A dangling
// reference yields nil and the caller renders a placeholder.
func (s *Scene) ResolveEntity(nodeID string) *store.DisplayEntity {
	s.mu.Lock()
	n := s.d.Node(nodeID)
	s.mu.Unlock()
	if n == nil || n.EntityRef == "" {
		return nil
	}
	e, err := s.adapter.ResolveEntity(n.EntityRef)
	if err != nil {
		s.log.Warn("entity resolution failed",
			zap.String("node", nodeID),
			zap.String("ref", n.EntityRef),
			zap.Error(err))
		return nil
	}
	return e
}

// RequestImageUpload starts asynchronous image acquisition for an image
// node. A request while one is pending is ignored; the node renders a
// placeholder until the blob reference resolves.
func (s *Scene) RequestImageUpload(ctx context.Context, nodeID string) {
	s.mu.Lock()
	im, ok := s.items[nodeID].(*item.ImageItem)
	if !ok || !im.BeginUpload() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go func() {
		ref, err := s.adapter.RequestImageUpload(ctx, nodeID)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.log.Warn("image upload failed",
				zap.String("node", nodeID),
				zap.Error(err))
			ref = ""
		}
		im.FinishUpload(ref)
		s.events.imageResolved(nodeID, ref)
	}()
}
