// Package terminal hosts a scene inside a tcell screen: it translates
// terminal mouse and key events into the scene's pointer and key
// protocol and renders a cell-grid projection of the diagram.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"weave/diagram"
	"weave/geometry"
	"weave/item"
	"weave/scene"
)

// Scene coordinates are logical pixels; terminal cells are roughly twice
// as tall as they are wide, so the projection divides unevenly to keep
// circles circular.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// Editor runs the interactive loop for one scene.
type Editor struct {
	screen tcell.Screen
	sc     *scene.Scene
	log    *zap.Logger

	buttonDown bool
	status     string
}

// NewEditor wraps an initialized screen around a scene.
func NewEditor(screen tcell.Screen, sc *scene.Scene, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{screen: screen, sc: sc, log: log}
}

// Run owns the screen until the user quits. The screen must already be
// initialized; the caller finalizes it.
func (e *Editor) Run() error {
	e.screen.EnableMouse()
	e.screen.Clear()
	e.draw()

	for {
		ev := e.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventMouse:
			e.handleMouse(ev)
		case *tcell.EventKey:
			if e.handleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
		e.draw()
	}
}

// toScene projects a cell position into scene coordinates.
func toScene(x, y int) geometry.Point {
	return geometry.Point{X: float64(x) * cellWidth, Y: float64(y) * cellHeight}
}

// toCell projects a scene point onto the cell grid.
func toCell(p geometry.Point) (int, int) {
	return int(p.X / cellWidth), int(p.Y / cellHeight)
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := toScene(x, y)

	mask := ev.Buttons()
	switch {
	case mask&tcell.Button1 != 0 && !e.buttonDown:
		e.buttonDown = true
		e.sc.PointerDown(p, scene.ButtonLeft)
	case mask&tcell.Button2 != 0 && !e.buttonDown:
		e.buttonDown = true
		e.sc.PointerDown(p, scene.ButtonRight)
	case mask == tcell.ButtonNone && e.buttonDown:
		e.buttonDown = false
		e.sc.PointerUp(p, scene.ButtonLeft)
	default:
		e.sc.PointerMove(p)
	}
}

// handleKey dispatches a key event; true means quit.
func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		e.sc.KeyDown(scene.KeyEscape)
		return false
	case tcell.KeyDelete:
		e.sc.KeyDown(scene.KeyDelete)
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.sc.KeyDown(scene.KeyBackspace)
		return false
	case tcell.KeyCtrlZ:
		e.sc.Undo()
		return false
	case tcell.KeyCtrlY:
		e.sc.Redo()
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'u':
		e.sc.Undo()
	case 'r':
		e.sc.Redo()
	case 'y':
		e.sc.KeyDown(scene.KeyCopy)
	case 'p':
		e.sc.KeyDown(scene.KeyPaste)
	case 'c':
		e.sc.StartAddition(diagram.NodeCharacter, "")
	case 'e':
		e.sc.StartAddition(diagram.NodeEvent, "")
	case 'g':
		e.sc.StartAddition(diagram.NodeEvent, diagram.SubtypeGoal)
	case 'x':
		e.sc.StartAddition(diagram.NodeEvent, diagram.SubtypeConflict)
	case 'n':
		e.sc.StartAddition(diagram.NodeNote, "")
	case 'i':
		e.sc.StartAddition(diagram.NodeIcon, "")
	case 'm':
		e.sc.StartAddition(diagram.NodeImage, "")
	}
	return false
}

// SetStatus overrides the status line until the next event, e.g. to
// surface a failed save.
func (e *Editor) SetStatus(msg string) {
	e.status = msg
}

// --- rendering --------------------------------------------------------

var (
	styleNode     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLink     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePending  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

func (e *Editor) draw() {
	e.screen.Clear()

	for _, ci := range e.sc.ConnectorItems() {
		style := styleLink
		if _, selID := e.sc.Selection(); selID == ci.Connector().ID {
			style = styleSelected
		}
		e.drawConnector(ci.Layout(), dashRune(ci.Connector().Pen), style)
	}
	if ph := e.sc.Placeholder(); ph != nil {
		e.drawConnector(ph.Layout(), '·', stylePending)
	}

	selNode, _ := e.sc.Selection()
	for _, it := range e.sc.Items() {
		style := styleNode
		if it.Node().ID == selNode {
			style = styleSelected
		}
		e.drawNode(it.Bounds(), nodeLabel(it.Node()), style)
	}

	e.drawStatus()
	e.screen.Show()
}

func nodeLabel(n *diagram.Node) string {
	if n.Text != "" {
		return n.Text
	}
	switch n.Type {
	case diagram.NodeCharacter:
		return "(character)"
	case diagram.NodeImage:
		return "(image)"
	case diagram.NodeIcon:
		return "(icon)"
	default:
		return string(n.Type)
	}
}

func (e *Editor) drawNode(b geometry.Rect, label string, style tcell.Style) {
	x0, y0 := toCell(geometry.Point{X: b.X, Y: b.Y})
	x1, y1 := toCell(geometry.Point{X: b.X + b.W, Y: b.Y + b.H})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	for x := x0; x <= x1; x++ {
		e.screen.SetContent(x, y0, tcell.RuneHLine, nil, style)
		e.screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := y0; y <= y1; y++ {
		e.screen.SetContent(x0, y, tcell.RuneVLine, nil, style)
		e.screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	e.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, style)
	e.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, style)
	e.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, style)
	e.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)

	cx := (x0+x1)/2 - len(label)/2
	cy := (y0 + y1) / 2
	for i, r := range label {
		if cx+i > x0 && cx+i < x1 {
			e.screen.SetContent(cx+i, cy, r, nil, style)
		}
	}
}

// drawConnector samples the path and plots one rune per cell crossed.
func (e *Editor) drawConnector(lay item.PathLayout, stroke rune, style tcell.Style) {
	const samples = 64
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		var p geometry.Point
		if lay.Linear {
			p = geometry.Lerp(lay.Start, lay.Start.Add(lay.End), t)
		} else {
			curve := geometry.QuadBezier{Control: lay.Control, End: lay.End}
			p = curve.At(t).Add(lay.Start)
		}
		x, y := toCell(p)
		e.screen.SetContent(x, y, stroke, nil, style)
	}
	if lay.HasLabel {
		x, y := toCell(lay.LabelPos)
		e.screen.SetContent(x, y, '◆', nil, style)
	}
}

func dashRune(pen diagram.PenStyle) rune {
	switch pen {
	case diagram.PenDash:
		return '╌'
	case diagram.PenDot:
		return '·'
	default:
		return '─'
	}
}

func (e *Editor) drawStatus() {
	w, h := e.screen.Size()
	selNode, selConn := e.sc.Selection()
	line := fmt.Sprintf(" %s  nodes:%d links:%d  undo:%d ",
		e.sc.Mode(), len(e.sc.Diagram().Nodes), len(e.sc.Diagram().Connectors), e.sc.UndoDepth())
	switch {
	case e.status != "":
		line += "| " + e.status
		e.status = ""
	case selNode != "":
		line += "| node " + selNode
	case selConn != "":
		line += "| link " + selConn
	}
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		e.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
}
