package scene_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weave/diagram"
	"weave/geometry"
	"weave/item"
	"weave/scene"
	"weave/store"
)

func newTestScene(t *testing.T, opts ...scene.Option) (*scene.Scene, *store.Memory, *scene.ManualScheduler) {
	t.Helper()
	mem := store.NewMemory()
	sched := &scene.ManualScheduler{}
	opts = append([]scene.Option{scene.WithScheduler(sched)}, opts...)
	sc, err := scene.New("d1", mem, opts...)
	require.NoError(t, err)
	return sc, mem, sched
}

// place runs the full addition gesture and returns the new node's id.
func place(t *testing.T, sc *scene.Scene, typ diagram.NodeType, subtype string, p geometry.Point) string {
	t.Helper()
	before := len(sc.Diagram().Nodes)
	sc.StartAddition(typ, subtype)
	sc.PointerDown(p, scene.ButtonLeft)
	sc.PointerUp(p, scene.ButtonLeft)
	nodes := sc.Diagram().Nodes
	require.Len(t, nodes, before+1)
	return nodes[len(nodes)-1].ID
}

// ringPoint returns the point on a mobile-socket item's socket ring at
// the given angle.
func ringPoint(sc *scene.Scene, nodeID string, angle float64) geometry.Point {
	return sc.Item(nodeID).SocketPosition(angle)
}

func TestAdditionPlacesAndSelectsNode(t *testing.T) {
	sc, mem, _ := newTestScene(t)

	id := place(t, sc, diagram.NodeEvent, diagram.SubtypeGoal, geometry.Point{X: 100, Y: 100})
	assert.Equal(t, scene.ModeIdle, sc.Mode())

	n := sc.Diagram().Node(id)
	require.NotNil(t, n)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, "target", n.Icon, "subtype default icon applies on placement")

	selNode, _ := sc.Selection()
	assert.Equal(t, id, selNode)
	assert.Equal(t, 1, mem.SaveCount)
	require.NotNil(t, mem.Saved("d1"))
	assert.NotNil(t, mem.Saved("d1").Node(id))
}

func TestAdditionCancelledByNonLeftButton(t *testing.T) {
	sc, _, _ := newTestScene(t)
	sc.StartAddition(diagram.NodeNote, "")
	require.Equal(t, scene.ModeAddition, sc.Mode())

	sc.PointerDown(geometry.Point{X: 50, Y: 50}, scene.ButtonRight)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Nil(t, sc.AdditionDescriptor())
	assert.Empty(t, sc.Diagram().Nodes)
}

func TestEscapeCancelsAdditionThenSelection(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})

	sc.StartAddition(diagram.NodeNote, "")
	sc.KeyDown(scene.KeyEscape)
	assert.Equal(t, scene.ModeIdle, sc.Mode())

	selNode, _ := sc.Selection()
	require.Equal(t, id, selNode)
	sc.KeyDown(scene.KeyEscape)
	selNode, _ = sc.Selection()
	assert.Empty(t, selNode)
}

// The canonical session: two characters, a link between them, then undo
// peels the link and the second character back off.
func TestLinkTwoCharactersThenUndo(t *testing.T) {
	sc, _, _ := newTestScene(t)

	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})

	// Press on a's socket ring starts link drawing.
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	require.Equal(t, scene.ModeLink, sc.Mode())
	require.NotNil(t, sc.Placeholder())

	// The placeholder's floating end follows the pointer.
	sc.PointerMove(geometry.Point{X: 300, Y: 130})
	lay := sc.Placeholder().Layout()
	end := lay.Start.Add(lay.End)
	assert.InDelta(t, 300, end.X, 1e-9)
	assert.InDelta(t, 130, end.Y, 1e-9)

	// Release on b's ring commits the connector.
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Nil(t, sc.Placeholder())
	require.Len(t, sc.Diagram().Connectors, 1)

	c := sc.Diagram().Connectors[0]
	assert.Equal(t, a, c.SourceID)
	assert.Equal(t, b, c.TargetID)
	assert.Equal(t, diagram.PenSolid, c.Pen)
	assert.Equal(t, diagram.DefaultPenWidth, c.PenWidth)

	require.True(t, sc.Undo())
	assert.Empty(t, sc.Diagram().Connectors)
	assert.Len(t, sc.Diagram().Nodes, 2)

	require.True(t, sc.Undo())
	assert.Nil(t, sc.Diagram().Node(b))

	sc.Redo()
	sc.Redo()
	assert.NotNil(t, sc.Diagram().Node(b))
	assert.Len(t, sc.Diagram().Connectors, 1)
}

func TestSelfLinkIsRejected(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})

	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	require.Equal(t, scene.ModeLink, sc.Mode())

	// Releasing on another socket of the same node cancels the link.
	sc.PointerUp(ringPoint(sc, a, 180), scene.ButtonLeft)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Empty(t, sc.Diagram().Connectors)
}

func TestEscapeAbortsLinkDrawing(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})

	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.KeyDown(scene.KeyEscape)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Nil(t, sc.Placeholder())
}

func TestDragSavesExactlyOnceAfterSettle(t *testing.T) {
	sc, mem, sched := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	baseline := mem.SaveCount

	body := sc.Item(id).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	require.Equal(t, scene.ModeDrag, sc.Mode())

	// Live drag frames must not hit the adapter.
	for i := 1; i <= 5; i++ {
		sc.PointerMove(body.Add(geometry.Point{X: float64(i * 40), Y: float64(i * 30)}))
	}
	assert.Equal(t, baseline, mem.SaveCount)

	sc.PointerUp(body.Add(geometry.Point{X: 200, Y: 150}), scene.ButtonLeft)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Equal(t, baseline, mem.SaveCount, "save waits for the settle delay")
	require.Equal(t, 1, sched.Pending())

	sched.Fire()
	assert.Equal(t, baseline+1, mem.SaveCount)

	saved := mem.Saved("d1").Node(id)
	assert.Equal(t, 300.0, saved.X)
	assert.Equal(t, 250.0, saved.Y)
}

func TestDragIsOneUndoStep(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	depth := sc.UndoDepth()

	body := sc.Item(id).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerMove(body.Add(geometry.Point{X: 50, Y: 0}))
	sc.PointerMove(body.Add(geometry.Point{X: 120, Y: 80}))
	sc.PointerUp(body.Add(geometry.Point{X: 120, Y: 80}), scene.ButtonLeft)

	assert.Equal(t, depth+1, sc.UndoDepth())
	require.True(t, sc.Undo())
	n := sc.Diagram().Node(id)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, 100.0, n.Y)
}

func TestDragWithoutDisplacementRecordsNothing(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	depth := sc.UndoDepth()

	body := sc.Item(id).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerUp(body, scene.ButtonLeft)
	assert.Equal(t, depth, sc.UndoDepth())
}

func TestResizeNoteCommitsOnceAndUndoes(t *testing.T) {
	sc, mem, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeNote, "", geometry.Point{X: 100, Y: 100})
	baseline := mem.SaveCount
	depth := sc.UndoDepth()

	// The note is selected from placement; grab the resize handle.
	b := sc.Item(id).Bounds()
	grip := geometry.Point{X: b.X + b.W - 1, Y: b.Y + b.H - 1}
	sc.PointerDown(grip, scene.ButtonLeft)
	require.Equal(t, scene.ModeResize, sc.Mode())

	sc.PointerMove(geometry.Point{X: 330, Y: 190})
	sc.PointerMove(geometry.Point{X: 360, Y: 210})
	assert.Equal(t, baseline, mem.SaveCount, "live resize frames are muted")

	sc.PointerUp(geometry.Point{X: 360, Y: 210}, scene.ButtonLeft)
	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Equal(t, baseline+1, mem.SaveCount)
	assert.Equal(t, depth+1, sc.UndoDepth())

	n := sc.Diagram().Node(id)
	assert.Equal(t, 260.0-item.NoteMargin, n.Width)
	assert.Equal(t, 110.0-item.NoteMargin, n.Height)

	require.True(t, sc.Undo())
	assert.Equal(t, float64(item.NoteDefaultWidth), sc.Diagram().Node(id).Width)
}

func TestConnectorsFollowDraggedNode(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})

	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	require.Len(t, sc.Diagram().Connectors, 1)
	ci := sc.ConnectorItems()[0]
	before := ci.Layout().Start

	body := sc.Item(a).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerMove(body.Add(geometry.Point{X: 0, Y: 200}))
	after := ci.Layout().Start
	assert.InDelta(t, before.Y+200, after.Y, 1e-6, "source socket rides the node")
	sc.PointerUp(body.Add(geometry.Point{X: 0, Y: 200}), scene.ButtonLeft)
}

func TestDeleteSelectedNodeCascadesAndUndoes(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)

	// Select a by clicking its body, then delete.
	body := sc.Item(a).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerUp(body, scene.ButtonLeft)
	sc.KeyDown(scene.KeyDelete)

	assert.Nil(t, sc.Diagram().Node(a))
	assert.Empty(t, sc.Diagram().Connectors, "incident connector cascades")
	selNode, _ := sc.Selection()
	assert.Empty(t, selNode)

	// One undo restores node and connector together.
	require.True(t, sc.Undo())
	assert.NotNil(t, sc.Diagram().Node(a))
	assert.Len(t, sc.Diagram().Connectors, 1)
	assert.NotNil(t, sc.ConnectorItems()[0])
}

func TestDeleteSelectedConnector(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	require.Len(t, sc.Diagram().Connectors, 1)

	// Click mid-path to select the connector, then delete it.
	mid := geometry.Lerp(ringPoint(sc, a, 0), ringPoint(sc, b, 180), 0.5)
	sc.PointerDown(mid, scene.ButtonLeft)
	_, selConn := sc.Selection()
	require.NotEmpty(t, selConn)

	sc.KeyDown(scene.KeyBackspace)
	assert.Empty(t, sc.Diagram().Connectors)
	assert.Len(t, sc.Diagram().Nodes, 2)

	require.True(t, sc.Undo())
	assert.Len(t, sc.Diagram().Connectors, 1)
}

func TestCopyPasteDuplicatesDescriptorOnly(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, diagram.SubtypeConflict, geometry.Point{X: 100, Y: 100})
	sc.EditText(id, "the duel")

	sc.KeyDown(scene.KeyCopy)
	sc.PointerMove(geometry.Point{X: 500, Y: 400})
	sc.KeyDown(scene.KeyPaste)

	nodes := sc.Diagram().Nodes
	require.Len(t, nodes, 2)
	pasted := nodes[1]
	assert.Equal(t, diagram.NodeEvent, pasted.Type)
	assert.Equal(t, diagram.SubtypeConflict, pasted.Subtype)
	assert.Equal(t, 500.0, pasted.X)
	assert.Empty(t, pasted.Text, "paste copies the descriptor, not the content")
	assert.NotEqual(t, id, pasted.ID)
}

func TestTextEditsMergeIntoOneUndoStep(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	depth := sc.UndoDepth()

	for _, v := range []string{"t", "th", "the", "the duel"} {
		sc.EditText(id, v)
	}
	assert.Equal(t, depth+1, sc.UndoDepth())
	assert.Equal(t, "the duel", sc.Diagram().Node(id).Text)

	require.True(t, sc.Undo())
	assert.Empty(t, sc.Diagram().Node(id).Text)
	require.True(t, sc.Redo())
	assert.Equal(t, "the duel", sc.Diagram().Node(id).Text)
}

func TestRetypeRebuildsVariantAndUndoes(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, diagram.SubtypeGoal, geometry.Point{X: 100, Y: 100})
	sc.EditText(id, "keep me")

	sc.Retype(id, diagram.NodeNote, "")
	n := sc.Diagram().Node(id)
	assert.Equal(t, diagram.NodeNote, n.Type)
	assert.Equal(t, "keep me", n.Text, "text survives conversion")
	assert.IsType(t, &item.NoteItem{}, sc.Item(id))

	require.True(t, sc.Undo())
	n = sc.Diagram().Node(id)
	assert.Equal(t, diagram.NodeEvent, n.Type)
	assert.Equal(t, diagram.SubtypeGoal, n.Subtype)
	assert.Equal(t, "target", n.Icon)
	assert.IsType(t, &item.EventItem{}, sc.Item(id))
}

func TestSaveFailureKeepsChangeAndNotifies(t *testing.T) {
	var failures []error
	mem := store.NewMemory()
	mem.FailSaves = true
	sched := &scene.ManualScheduler{}
	sc, err := scene.New("d1", mem,
		scene.WithScheduler(sched),
		scene.WithEvents(scene.Events{SaveFailed: func(err error) { failures = append(failures, err) }}),
	)
	require.NoError(t, err)

	sc.StartAddition(diagram.NodeEvent, "")
	p := geometry.Point{X: 100, Y: 100}
	sc.PointerDown(p, scene.ButtonLeft)
	sc.PointerUp(p, scene.ButtonLeft)

	assert.Len(t, sc.Diagram().Nodes, 1, "in-memory change survives the failed save")
	assert.Equal(t, 1, sc.UndoDepth())
	require.NotEmpty(t, failures)
	assert.ErrorIs(t, failures[0], store.ErrPersistence)
}

func TestHydrateExistingDiagramAndPrune(t *testing.T) {
	mem := store.NewMemory()
	d := diagram.New("d1", "loaded board")
	require.NoError(t, d.AddNode(&diagram.Node{ID: "a", Type: diagram.NodeCharacter, X: 100, Y: 100}))
	require.NoError(t, d.AddNode(&diagram.Node{ID: "b", Type: diagram.NodeEvent, X: 400, Y: 100, Text: "x"}))
	require.NoError(t, d.AddConnector(&diagram.Connector{ID: "ab", SourceID: "a", TargetID: "b"}))
	// A dangling edge, as left behind by a partial write.
	d.Connectors = append(d.Connectors, &diagram.Connector{ID: "bad", SourceID: "a", TargetID: "ghost"})
	require.NoError(t, mem.Save(d))

	sc, err := scene.New("d1", mem, scene.WithScheduler(&scene.ManualScheduler{}))
	require.NoError(t, err)

	assert.Len(t, sc.Diagram().Nodes, 2)
	require.Len(t, sc.Diagram().Connectors, 1)
	assert.Equal(t, "ab", sc.Diagram().Connectors[0].ID)
	assert.NotNil(t, sc.Item("a"))
	assert.NotNil(t, sc.ConnectorItem("ab"))
	assert.False(t, sc.ConnectorItem("ab").Layout().Start == (geometry.Point{}), "routed on load")
}

func TestImageUploadResolvesAsynchronously(t *testing.T) {
	resolved := make(chan string, 1)
	sc, mem, _ := newTestScene(t, scene.WithEvents(scene.Events{
		ImageResolved: func(nodeID, ref string) { resolved <- ref },
	}))
	mem.UploadFunc = func(ctx context.Context, nodeID string) ([]byte, error) {
		return []byte{0x89, 'P', 'N', 'G'}, nil
	}

	id := place(t, sc, diagram.NodeImage, "", geometry.Point{X: 100, Y: 100})
	sc.RequestImageUpload(context.Background(), id)

	var ref string
	select {
	case ref = <-resolved:
	case <-time.After(time.Second):
		t.Fatal("upload never resolved")
	}
	require.NotEmpty(t, ref)
	assert.Equal(t, ref, sc.Diagram().Node(id).ImageRef)

	blob, err := mem.LoadImage(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, blob)
}

func TestResolveEntityProjection(t *testing.T) {
	sc, mem, _ := newTestScene(t)
	mem.PutEntity(store.DisplayEntity{ID: "char-7", Name: "Ilona", AvatarRef: "av-7"})

	id := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	assert.Nil(t, sc.ResolveEntity(id), "no reference yet")

	sc.Item(id).(*item.CharacterItem).SetEntityRef("char-7")
	e := sc.ResolveEntity(id)
	require.NotNil(t, e)
	assert.Equal(t, "Ilona", e.Name)

	sc.Item(id).(*item.CharacterItem).SetEntityRef("gone")
	assert.Nil(t, sc.ResolveEntity(id), "dangling reference degrades to nil")
}

func TestConnectorStyleOpsAreUndoable(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	id := sc.Diagram().Connectors[0].ID

	sc.SetConnectorPen(id, diagram.PenDash)
	sc.SetConnectorText(id, "rivals")
	sc.SetConnectorColor(id, "#e76f51")

	c := sc.Diagram().Connector(id)
	assert.Equal(t, diagram.PenDash, c.Pen)
	assert.Equal(t, "rivals", c.Text)

	sc.Undo() // color
	sc.Undo() // text
	sc.Undo() // pen
	assert.Equal(t, diagram.PenSolid, c.Pen)
	assert.Empty(t, c.Text)
	assert.Empty(t, c.Color)
}

func TestMoveControlPointPinsCurve(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	id := sc.Diagram().Connectors[0].ID
	depth := sc.UndoDepth()

	// A control-point drag is one merged undo entry.
	sc.MoveControlPoint(id, geometry.Point{X: 50, Y: -40})
	sc.MoveControlPoint(id, geometry.Point{X: 80, Y: -70})
	assert.Equal(t, depth+1, sc.UndoDepth())

	lay := sc.ConnectorItem(id).Layout()
	assert.False(t, lay.Linear)
	assert.Equal(t, geometry.Point{X: 80, Y: -70}, lay.Control)
	assert.True(t, sc.Diagram().Connector(id).Curved())
}

func TestMoveControlPointUndoDropsFreshPin(t *testing.T) {
	sc, _, _ := newTestScene(t)
	a := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 100, Y: 100})
	b := place(t, sc, diagram.NodeCharacter, "", geometry.Point{X: 400, Y: 100})
	sc.PointerDown(ringPoint(sc, a, 0), scene.ButtonLeft)
	sc.PointerUp(ringPoint(sc, b, 180), scene.ButtonLeft)
	id := sc.Diagram().Connectors[0].ID

	// Characters at the same height route as a straight segment.
	require.True(t, sc.ConnectorItem(id).Layout().Linear)
	require.False(t, sc.Diagram().Connector(id).Curved())

	sc.MoveControlPoint(id, geometry.Point{X: 50, Y: -40})
	sc.MoveControlPoint(id, geometry.Point{X: 80, Y: -70})

	// The connector had no pin before the drag, so undo must clear it
	// rather than leave an explicit point behind.
	require.True(t, sc.Undo())
	assert.False(t, sc.Diagram().Connector(id).Curved())
	assert.True(t, sc.ConnectorItem(id).Layout().Linear)

	require.True(t, sc.Redo())
	assert.True(t, sc.Diagram().Connector(id).Curved())
	assert.Equal(t, geometry.Point{X: 80, Y: -70}, sc.ConnectorItem(id).Layout().Control)
}

func TestCancelAbortsInFlightDrag(t *testing.T) {
	sc, mem, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	baseline := mem.SaveCount

	body := sc.Item(id).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerMove(body.Add(geometry.Point{X: 100, Y: 0}))
	sc.Cancel()

	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Equal(t, 100.0, sc.Diagram().Node(id).X, "the node snaps back to its pick-up position")
	// Cancel unmutes; the next real mutation persists again.
	sc.EditText(id, "after cancel")
	assert.Greater(t, mem.SaveCount, baseline)
}

func TestEscapeAbortsDragAndRestoresPosition(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeEvent, "", geometry.Point{X: 100, Y: 100})
	depth := sc.UndoDepth()

	body := sc.Item(id).Bounds().Center()
	sc.PointerDown(body, scene.ButtonLeft)
	sc.PointerMove(body.Add(geometry.Point{X: 120, Y: 80}))
	sc.KeyDown(scene.KeyEscape)

	assert.Equal(t, scene.ModeIdle, sc.Mode())
	n := sc.Diagram().Node(id)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, 100.0, n.Y)
	assert.Equal(t, depth, sc.UndoDepth(), "an aborted drag records no command")

	selNode, _ := sc.Selection()
	assert.Equal(t, id, selNode, "escape consumes the gesture, not the selection")
}

func TestEscapeAbortsResizeAndRestoresSize(t *testing.T) {
	sc, _, _ := newTestScene(t)
	id := place(t, sc, diagram.NodeNote, "", geometry.Point{X: 100, Y: 100})
	depth := sc.UndoDepth()

	b := sc.Item(id).Bounds()
	grip := geometry.Point{X: b.X + b.W - 1, Y: b.Y + b.H - 1}
	sc.PointerDown(grip, scene.ButtonLeft)
	require.Equal(t, scene.ModeResize, sc.Mode())

	sc.PointerMove(geometry.Point{X: 360, Y: 210})
	sc.KeyDown(scene.KeyEscape)

	assert.Equal(t, scene.ModeIdle, sc.Mode())
	assert.Equal(t, float64(item.NoteDefaultWidth), sc.Diagram().Node(id).Width)
	assert.Equal(t, depth, sc.UndoDepth(), "an aborted resize records no command")
}
