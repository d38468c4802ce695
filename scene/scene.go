// Package scene implements the interactive state machine that mediates
// pointer and keyboard input against a diagram: selection, item
// addition, link drawing, drag, resize, copy/paste and deletion, with
// every mutation wrapped in an undoable command.
package scene

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weave/command"
	"weave/diagram"
	"weave/geometry"
	"weave/item"
	"weave/store"
)

const (
	// SocketHitRadius is the pointer slack around a socket center.
	SocketHitRadius = 8.0

	// connectorHitRadius is the pointer slack around a connector path.
	connectorHitRadius = 6.0

	// SettleDelay is how long a dragged node must rest before its final
	// position is persisted. Intermediate frames are never saved.
	SettleDelay = time.Second
)

// mobileSocketItem is implemented by variants whose single socket
// follows the pointer (character, icon).
type mobileSocketItem interface {
	item.NodeItem
	TrackPointer(p geometry.Point)
	MobileAngle() float64
}

// Scene is the interactive editor state for one diagram. It is owned by
// exactly one editor widget. All mutations happen synchronously inside
// input callbacks; the settle timer and image completion are the only
// off-thread entrants and take the same lock, which the accessors take
// too. Event callbacks fire with the lock held and must not call back
// into the scene.
type Scene struct {
	mu      sync.Mutex
	d       *diagram.Diagram
	adapter store.Adapter
	log     *zap.Logger
	stack   *command.Stack
	icons   *item.IconRegistry
	sched   Scheduler
	events  Events

	items map[string]item.NodeItem
	conns map[string]*item.ConnectorItem

	mode      Mode
	addition  *ItemDescriptor
	clipboard *ItemDescriptor

	pointer geometry.Point

	selectedNode string
	selectedConn string
	editorOpen   string

	linkSource  item.Socket
	placeholder *item.ConnectorItem

	dragID     string
	dragStart  geometry.Point
	dragOffset geometry.Point

	resizeID                   string
	resizeStartW, resizeStartH float64

	// muted suppresses persistence during live drag/resize frames; the
	// settle timer or the release commits instead.
	muted        bool
	cancelSettle func()
}

// Option configures a scene.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// WithScheduler replaces the settle-timer scheduler.
func WithScheduler(sched Scheduler) Option {
	return func(s *Scene) { s.sched = sched }
}

// WithEvents installs the host event callbacks.
func WithEvents(ev Events) Option {
	return func(s *Scene) { s.events = ev }
}

// WithIconRegistry replaces the stock icon registry.
func WithIconRegistry(reg *item.IconRegistry) Option {
	return func(s *Scene) { s.icons = reg }
}

// WithUndoLimit bounds the undo stack.
func WithUndoLimit(n int) Option {
	return func(s *Scene) { s.stack = command.NewStack(n) }
}

// New hydrates the diagram through the adapter and builds the runtime
// items. A diagram the adapter has never seen starts empty. Dangling
// connectors from a partial load are pruned, not fatal.
func New(diagramID string, adapter store.Adapter, opts ...Option) (*Scene, error) {
	s := &Scene{
		adapter: adapter,
		log:     zap.NewNop(),
		stack:   command.NewStack(0),
		icons:   item.NewIconRegistry(),
		sched:   NewTimerScheduler(),
		items:   make(map[string]item.NodeItem),
		conns:   make(map[string]*item.ConnectorItem),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.d = diagram.New(diagramID, "")
	if err := s.d.Hydrate(adapter); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		s.d.MarkLoaded()
	}
	s.d.Prune(s.log)

	for _, n := range s.d.Nodes {
		s.attachNode(n)
	}
	for _, c := range s.d.Connectors {
		s.attachConnector(c)
	}
	s.rearrangeAll()
	return s, nil
}

// Diagram returns the scene's diagram aggregate. The aggregate belongs
// to the input thread; hosts observing an in-flight upload synchronize
// on Events.ImageResolved before reading.
func (s *Scene) Diagram() *diagram.Diagram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d
}

// Mode returns the current interaction mode.
func (s *Scene) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Item returns the runtime item for a node id, or nil.
func (s *Scene) Item(nodeID string) item.NodeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[nodeID]
}

// Items returns all node items in z-order.
func (s *Scene) Items() []item.NodeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]item.NodeItem, 0, len(s.d.Nodes))
	for _, n := range s.d.Nodes {
		if it := s.items[n.ID]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

// ConnectorItem returns the runtime connector for an id, or nil.
func (s *Scene) ConnectorItem(id string) *item.ConnectorItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[id]
}

// ConnectorItems returns all connector items in insertion order.
func (s *Scene) ConnectorItems() []*item.ConnectorItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*item.ConnectorItem, 0, len(s.d.Connectors))
	for _, c := range s.d.Connectors {
		if ci := s.conns[c.ID]; ci != nil {
			out = append(out, ci)
		}
	}
	return out
}

// Placeholder returns the link-drawing placeholder connector, or nil
// when no link is in flight.
func (s *Scene) Placeholder() *item.ConnectorItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

// Selection returns the selected node id and connector id; both empty
// when nothing is selected.
func (s *Scene) Selection() (nodeID, connectorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedNode, s.selectedConn
}

// Undo reverts the most recent command.
func (s *Scene) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("undo")
	return s.stack.Undo()
}

// Redo re-applies the most recently undone command.
func (s *Scene) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("redo")
	return s.stack.Redo()
}

// UndoDepth returns the number of recorded commands.
func (s *Scene) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Len()
}

// --- wiring -----------------------------------------------------------

func (s *Scene) attachNode(n *diagram.Node) item.NodeItem {
	it := item.New(n, s.log)
	id := n.ID
	it.SetOnChange(func() {
		s.rearrangeNode(id)
		s.persist()
	})
	s.items[id] = it
	return it
}

func (s *Scene) attachConnector(c *diagram.Connector) *item.ConnectorItem {
	ci := item.NewConnectorItem(c)
	ci.SetOnChange(func() {
		ci.Rearrange(s.resolveSocket)
		s.persist()
	})
	s.conns[c.ID] = ci
	return ci
}

// resolveSocket maps a socket address to its scene position. The empty
// node id is the link placeholder's floating end: it rides the pointer.
func (s *Scene) resolveSocket(sock item.Socket) (geometry.Point, bool) {
	if sock.NodeID == "" {
		return s.pointer, true
	}
	it := s.items[sock.NodeID]
	if it == nil {
		return geometry.Point{}, false
	}
	return it.SocketPosition(sock.Angle), true
}

func (s *Scene) rearrangeNode(nodeID string) {
	for _, c := range s.d.ConnectorsAt(nodeID) {
		if ci := s.conns[c.ID]; ci != nil {
			ci.Rearrange(s.resolveSocket)
		}
	}
}

func (s *Scene) rearrangeAll() {
	for _, ci := range s.conns {
		ci.Rearrange(s.resolveSocket)
	}
}

// persist pushes the whole diagram at the adapter. Failures are logged
// and surfaced; the in-memory state keeps the change and the undo stack
// is untouched.
func (s *Scene) persist() {
	if s.muted {
		return
	}
	if err := s.adapter.Save(s.d); err != nil {
		s.log.Warn("diagram save failed",
			zap.String("diagram", s.d.ID),
			zap.Error(err))
		s.events.saveFailed(err)
	}
}

func (s *Scene) recoverPanic(op string) {
	if r := recover(); r != nil {
		// An event callback must never unwind the host's loop; degrade
		// to idle and log.
		s.log.Error("recovered panic in scene operation",
			zap.String("op", op),
			zap.Any("panic", r))
		s.mode = ModeIdle
		s.muted = false
		s.placeholder = nil
		s.addition = nil
	}
}

// --- hit testing ------------------------------------------------------

func (s *Scene) hitNode(p geometry.Point) item.NodeItem {
	// Topmost first: later nodes overlap earlier ones.
	for i := len(s.d.Nodes) - 1; i >= 0; i-- {
		it := s.items[s.d.Nodes[i].ID]
		if it != nil && it.Contains(p) {
			return it
		}
	}
	return nil
}

func (s *Scene) hitSocket(p geometry.Point) (item.Socket, bool) {
	for i := len(s.d.Nodes) - 1; i >= 0; i-- {
		it := s.items[s.d.Nodes[i].ID]
		if it == nil {
			continue
		}
		if mob, ok := it.(mobileSocketItem); ok {
			center := it.Bounds().Center()
			ring := center.Distance(it.SocketPosition(0))
			if geometry.Abs(center.Distance(p)-ring) <= SocketHitRadius {
				mob.TrackPointer(p)
				return item.Socket{NodeID: it.Node().ID, Angle: mob.MobileAngle()}, true
			}
			continue
		}
		for _, angle := range it.SocketAngles() {
			if it.SocketPosition(angle).Distance(p) <= SocketHitRadius {
				return item.Socket{NodeID: it.Node().ID, Angle: angle}, true
			}
		}
	}
	return item.Socket{}, false
}

func (s *Scene) hitConnector(p geometry.Point) *item.ConnectorItem {
	for i := len(s.d.Connectors) - 1; i >= 0; i-- {
		ci := s.conns[s.d.Connectors[i].ID]
		if ci == nil {
			continue
		}
		lay := ci.Layout()
		if lay.Linear {
			end := lay.Start.Add(lay.End)
			for t := 0.0; t <= 1.0; t += 1.0 / 16 {
				if geometry.Lerp(lay.Start, end, t).Distance(p) <= connectorHitRadius {
					return ci
				}
			}
			continue
		}
		curve := geometry.QuadBezier{Control: lay.Control, End: lay.End}
		for t := 0.0; t <= 1.0; t += 1.0 / 16 {
			if curve.At(t).Add(lay.Start).Distance(p) <= connectorHitRadius {
				return ci
			}
		}
	}
	return nil
}

// --- selection --------------------------------------------------------

func (s *Scene) selectNode(nodeID string) {
	if s.selectedNode == nodeID && s.selectedConn == "" {
		return
	}
	s.closeEditor()
	s.selectedNode = nodeID
	s.selectedConn = ""
	s.events.selectionChanged(nodeID, "")
	it := s.items[nodeID]
	if it == nil {
		return
	}
	if _, ok := it.(item.TextEditable); ok {
		s.editorOpen = nodeID
		s.events.editRequested(it)
	}
}

func (s *Scene) selectConnector(id string) {
	if s.selectedConn == id && s.selectedNode == "" {
		return
	}
	s.closeEditor()
	s.selectedNode = ""
	s.selectedConn = id
	s.events.selectionChanged("", id)
}

// ClearSelection deselects everything and closes any open editor panel.
func (s *Scene) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelection()
}

func (s *Scene) clearSelection() {
	if s.selectedNode == "" && s.selectedConn == "" {
		return
	}
	s.closeEditor()
	s.selectedNode = ""
	s.selectedConn = ""
	s.events.selectionChanged("", "")
}

func (s *Scene) closeEditor() {
	if s.editorOpen != "" {
		s.events.editClosed(s.editorOpen)
		s.editorOpen = ""
	}
}

// --- addition mode ----------------------------------------------------

// StartAddition arms the scene: the next left release places a node of
// the given type.
func (s *Scene) StartAddition(itemType diagram.NodeType, subtype string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLink()
	s.addition = &ItemDescriptor{Type: string(itemType), Subtype: subtype}
	s.mode = ModeAddition
}

// CancelAddition disarms addition mode without creating anything.
func (s *Scene) CancelAddition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAddition()
}

func (s *Scene) cancelAddition() {
	if s.mode == ModeAddition {
		s.addition = nil
		s.mode = ModeIdle
	}
}

// AdditionDescriptor returns the armed descriptor, or nil.
func (s *Scene) AdditionDescriptor() *ItemDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addition
}

// --- link drawing -----------------------------------------------------

func (s *Scene) startLink(source item.Socket) {
	placeholder := &diagram.Connector{
		SourceID:    source.NodeID,
		SourceAngle: source.Angle,
		Pen:         diagram.PenSolid,
		PenWidth:    diagram.DefaultPenWidth,
	}
	s.linkSource = source
	s.placeholder = item.NewConnectorItem(placeholder)
	s.placeholder.Rearrange(s.resolveSocket)
	s.mode = ModeLink
}

func (s *Scene) cancelLink() {
	if s.mode == ModeLink {
		s.placeholder = nil
		s.mode = ModeIdle
	}
}

// LinkAllowed reports whether the socket is a legal link target for the
// in-flight link. Sockets on the source node are never allowed.
func (s *Scene) LinkAllowed(target item.Socket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linkAllowed(target)
}

func (s *Scene) linkAllowed(target item.Socket) bool {
	return s.mode == ModeLink && target.NodeID != s.linkSource.NodeID
}

// LinkSource returns the in-flight link's source socket.
func (s *Scene) LinkSource() item.Socket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linkSource
}

// HoverTarget returns the socket under the pointer while link drawing,
// plus whether linking to it is allowed, for visual flagging.
func (s *Scene) HoverTarget() (item.Socket, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLink {
		return item.Socket{}, false, false
	}
	sock, ok := s.hitSocket(s.pointer)
	if !ok {
		return item.Socket{}, false, false
	}
	return sock, true, s.linkAllowed(sock)
}

// --- pointer protocol -------------------------------------------------

// PointerDown feeds a button press into the state machine.
func (s *Scene) PointerDown(p geometry.Point, btn Button) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("pointer down")
	s.pointer = p

	switch s.mode {
	case ModeAddition:
		if btn != ButtonLeft {
			s.cancelAddition()
		}
	case ModeLink:
		if btn != ButtonLeft {
			s.cancelLink()
		}
	case ModeIdle:
		if btn != ButtonLeft {
			return
		}
		if sock, ok := s.hitSocket(p); ok {
			s.startLink(sock)
			return
		}
		if s.selectedNode != "" {
			if it := s.items[s.selectedNode]; it != nil {
				if handle, ok := item.ResizeHandle(it); ok && handle.Contains(p) {
					s.beginResize(it)
					return
				}
			}
		}
		if it := s.hitNode(p); it != nil {
			s.selectNode(it.Node().ID)
			s.beginDrag(it, p)
			return
		}
		if ci := s.hitConnector(p); ci != nil {
			s.selectConnector(ci.Connector().ID)
			return
		}
		s.clearSelection()
	}
}

// PointerMove feeds pointer motion into the state machine.
func (s *Scene) PointerMove(p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("pointer move")
	s.pointer = p

	switch s.mode {
	case ModeLink:
		s.placeholder.Rearrange(s.resolveSocket)
	case ModeDrag:
		if it := s.items[s.dragID]; it != nil {
			it.MoveTo(p.Sub(s.dragOffset))
		}
	case ModeResize:
		if re, ok := s.items[s.resizeID].(item.Resizable); ok {
			b := s.items[s.resizeID].Bounds()
			re.Resize(p.X-b.X, p.Y-b.Y)
		}
	case ModeIdle:
		if mob, ok := s.hitNode(p).(mobileSocketItem); ok {
			mob.TrackPointer(p)
		}
	}
}

// PointerUp feeds a button release into the state machine. A release
// outside the view still lands here, so every mode resolves to a
// definite terminal action.
func (s *Scene) PointerUp(p geometry.Point, btn Button) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("pointer up")
	s.pointer = p

	switch s.mode {
	case ModeAddition:
		if btn != ButtonLeft {
			s.cancelAddition()
			return
		}
		desc := *s.addition
		s.addition = nil
		s.mode = ModeIdle
		s.placeNode(desc, p)
	case ModeLink:
		if btn != ButtonLeft {
			s.cancelLink()
			return
		}
		sock, ok := s.hitSocket(p)
		if !ok || !s.linkAllowed(sock) {
			s.cancelLink()
			return
		}
		s.commitLink(sock)
	case ModeDrag:
		s.finishDrag()
	case ModeResize:
		s.finishResize()
	}
}

// Cancel aborts any in-flight interaction, e.g. when the pointer leaves
// the view for good.
func (s *Scene) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("cancel")
	switch s.mode {
	case ModeAddition:
		s.cancelAddition()
	case ModeLink:
		s.cancelLink()
	case ModeDrag:
		s.cancelDrag()
	case ModeResize:
		s.cancelResize()
	}
}

// KeyDown feeds a keyboard action into the state machine.
func (s *Scene) KeyDown(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic("key down")

	switch k {
	case KeyEscape:
		switch s.mode {
		case ModeLink:
			s.cancelLink()
		case ModeAddition:
			s.cancelAddition()
		case ModeDrag:
			s.cancelDrag()
		case ModeResize:
			s.cancelResize()
		default:
			s.clearSelection()
		}
	case KeyDelete, KeyBackspace:
		s.deleteSelection()
	case KeyCopy:
		if s.selectedNode != "" {
			if n := s.d.Node(s.selectedNode); n != nil {
				s.clipboard = &ItemDescriptor{Type: string(n.Type), Subtype: n.Subtype}
			}
		}
	case KeyPaste:
		if s.clipboard != nil {
			s.placeNode(*s.clipboard, s.pointer)
		}
	}
}

// --- drag / resize ----------------------------------------------------

func (s *Scene) beginDrag(it item.NodeItem, p geometry.Point) {
	n := it.Node()
	s.dragID = n.ID
	s.dragStart = geometry.Point{X: n.X, Y: n.Y}
	s.dragOffset = p.Sub(s.dragStart)
	s.muted = true
	s.mode = ModeDrag
}

func (s *Scene) finishDrag() {
	s.muted = false
	s.mode = ModeIdle
	it := s.items[s.dragID]
	if it == nil {
		return
	}
	n := it.Node()
	oldPos, newPos := s.dragStart, geometry.Point{X: n.X, Y: n.Y}
	if newPos == oldPos {
		return
	}
	s.stack.Push(command.NewFunc(
		func() { it.MoveTo(newPos) },
		func() { it.MoveTo(oldPos) },
	))
	s.events.itemMoved(it)
	s.scheduleSettle()
}

// cancelDrag abandons the gesture and puts the node back where it was
// picked up. No command is recorded.
func (s *Scene) cancelDrag() {
	s.muted = false
	s.mode = ModeIdle
	if it := s.items[s.dragID]; it != nil {
		it.MoveTo(s.dragStart)
	}
}

// scheduleSettle arms the debounced position save, replacing any armed
// timer rather than stacking a second one.
func (s *Scene) scheduleSettle() {
	if s.cancelSettle != nil {
		s.cancelSettle()
	}
	s.cancelSettle = s.sched.Schedule(SettleDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.persist()
	})
}

func (s *Scene) beginResize(it item.NodeItem) {
	re, ok := it.(item.Resizable)
	if !ok {
		return
	}
	s.resizeID = it.Node().ID
	s.resizeStartW, s.resizeStartH = re.OuterSize()
	s.muted = true
	s.mode = ModeResize
}

func (s *Scene) finishResize() {
	s.muted = false
	s.mode = ModeIdle
	it := s.items[s.resizeID]
	re, ok := it.(item.Resizable)
	if !ok {
		return
	}
	w, h := re.OuterSize()
	if w == s.resizeStartW && h == s.resizeStartH {
		return
	}
	s.stack.Push(command.NewProperty(s.resizeID, command.KindResize,
		func(size [2]float64) { re.Resize(size[0], size[1]) },
		[2]float64{s.resizeStartW, s.resizeStartH},
		[2]float64{w, h},
	))
	s.persist()
}

// cancelResize abandons the gesture and restores the starting size. No
// command is recorded.
func (s *Scene) cancelResize() {
	s.muted = false
	s.mode = ModeIdle
	if re, ok := s.items[s.resizeID].(item.Resizable); ok {
		re.Resize(s.resizeStartW, s.resizeStartH)
	}
}

// --- structural operations --------------------------------------------

// placeNode creates a node of the described type at the pointer
// position, wrapped in an undoable addition command.
func (s *Scene) placeNode(desc ItemDescriptor, p geometry.Point) {
	n := &diagram.Node{
		ID:      uuid.NewString(),
		Type:    diagram.NodeType(desc.Type),
		Subtype: desc.Subtype,
		X:       p.X,
		Y:       p.Y,
	}
	if icon := s.icons.SubtypeIcon(n.Subtype); icon != "" {
		n.Icon = icon
	}
	it := s.attachNode(n) // normalizes type and sizes
	if err := s.d.AddNode(n); err != nil {
		s.log.Warn("node addition rejected", zap.String("node", n.ID), zap.Error(err))
		delete(s.items, n.ID)
		return
	}
	s.stack.Push(command.NewFunc(
		func() { s.restoreNode(n, nil) },
		func() { s.removeNode(n.ID) },
	))
	s.persist()
	s.events.itemAdded(it)
	s.selectNode(n.ID)
}

// removeNode detaches a node and, through the diagram cascade, every
// connector touching it.
func (s *Scene) removeNode(nodeID string) {
	_, cascaded, err := s.d.RemoveNode(nodeID)
	if err != nil {
		s.log.Warn("node removal rejected", zap.String("node", nodeID), zap.Error(err))
		return
	}
	delete(s.items, nodeID)
	for _, c := range cascaded {
		delete(s.conns, c.ID)
	}
	if s.selectedNode == nodeID {
		s.clearSelection()
	}
	s.persist()
	s.events.itemRemoved(nodeID)
}

// restoreNode reverses removeNode: the node and any cascaded connectors
// come back exactly as captured.
func (s *Scene) restoreNode(n *diagram.Node, cascaded []*diagram.Connector) {
	if err := s.d.AddNode(n); err != nil {
		s.log.Warn("node restore rejected", zap.String("node", n.ID), zap.Error(err))
		return
	}
	s.attachNode(n)
	for _, c := range cascaded {
		if err := s.d.AddConnector(c); err != nil {
			s.log.Warn("connector restore rejected", zap.String("connector", c.ID), zap.Error(err))
			continue
		}
		s.attachConnector(c).Rearrange(s.resolveSocket)
	}
	s.rearrangeNode(n.ID)
	s.persist()
}

// commitLink turns the placeholder into a real connector. Illegal links
// (same node at both ends) were filtered by the caller; the diagram
// validates again and the scene state is unchanged on rejection.
func (s *Scene) commitLink(target item.Socket) {
	c := &diagram.Connector{
		ID:          uuid.NewString(),
		SourceID:    s.linkSource.NodeID,
		SourceAngle: s.linkSource.Angle,
		TargetID:    target.NodeID,
		TargetAngle: target.Angle,
		Pen:         diagram.PenSolid,
		PenWidth:    diagram.DefaultPenWidth,
	}
	if err := s.d.AddConnector(c); err != nil {
		s.log.Warn("link rejected", zap.Error(err))
		s.cancelLink()
		return
	}
	ci := s.attachConnector(c)
	ci.Rearrange(s.resolveSocket)
	s.placeholder = nil
	s.mode = ModeIdle

	s.stack.Push(command.NewFunc(
		func() { s.restoreConnector(c) },
		func() { s.removeConnector(c.ID) },
	))
	s.persist()
	s.events.connectorLinked(ci)
}

func (s *Scene) removeConnector(id string) {
	if _, err := s.d.RemoveConnector(id); err != nil {
		s.log.Warn("connector removal rejected", zap.String("connector", id), zap.Error(err))
		return
	}
	delete(s.conns, id)
	if s.selectedConn == id {
		s.clearSelection()
	}
	s.persist()
}

func (s *Scene) restoreConnector(c *diagram.Connector) {
	if err := s.d.AddConnector(c); err != nil {
		s.log.Warn("connector restore rejected", zap.String("connector", c.ID), zap.Error(err))
		return
	}
	s.attachConnector(c).Rearrange(s.resolveSocket)
	s.persist()
}

// DeleteSelection removes the selected node (with its connectors) or
// the selected connector as a single undoable batch.
func (s *Scene) DeleteSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteSelection()
}

func (s *Scene) deleteSelection() {
	switch {
	case s.selectedNode != "":
		nodeID := s.selectedNode
		n := s.d.Node(nodeID)
		if n == nil {
			return
		}
		cascaded := append([]*diagram.Connector(nil), s.d.ConnectorsAt(nodeID)...)
		s.removeNode(nodeID)
		s.stack.Push(command.NewFunc(
			func() { s.removeNode(nodeID) },
			func() { s.restoreNode(n, cascaded) },
		))
	case s.selectedConn != "":
		id := s.selectedConn
		c := s.d.Connector(id)
		if c == nil {
			return
		}
		s.removeConnector(id)
		s.stack.Push(command.NewFunc(
			func() { s.removeConnector(id) },
			func() { s.restoreConnector(c) },
		))
	}
}
