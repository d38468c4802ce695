package scene

import "weave/item"

// Events are the host-visible notifications the scene emits. The host
// drives surrounding chrome (toolbars, property panels) off them; nil
// fields are skipped.
type Events struct {
	ItemAdded        func(it item.NodeItem)
	ItemRemoved      func(nodeID string)
	ItemMoved        func(it item.NodeItem)
	ConnectorLinked  func(ci *item.ConnectorItem)
	SelectionChanged func(nodeID, connectorID string)
	EditRequested    func(it item.NodeItem)
	EditClosed       func(nodeID string)

	// ImageResolved fires when an asynchronous image upload completes,
	// from the upload goroutine. An empty ref means the upload failed
	// and the node keeps its placeholder.
	ImageResolved func(nodeID, ref string)

	// SaveFailed surfaces a persistence failure for user-visible retry.
	// The in-memory change is kept either way.
	SaveFailed func(err error)
}

func (e *Events) itemAdded(it item.NodeItem) {
	if e.ItemAdded != nil {
		e.ItemAdded(it)
	}
}

func (e *Events) itemRemoved(nodeID string) {
	if e.ItemRemoved != nil {
		e.ItemRemoved(nodeID)
	}
}

func (e *Events) itemMoved(it item.NodeItem) {
	if e.ItemMoved != nil {
		e.ItemMoved(it)
	}
}

func (e *Events) connectorLinked(ci *item.ConnectorItem) {
	if e.ConnectorLinked != nil {
		e.ConnectorLinked(ci)
	}
}

func (e *Events) selectionChanged(nodeID, connectorID string) {
	if e.SelectionChanged != nil {
		e.SelectionChanged(nodeID, connectorID)
	}
}

func (e *Events) editRequested(it item.NodeItem) {
	if e.EditRequested != nil {
		e.EditRequested(it)
	}
}

func (e *Events) editClosed(nodeID string) {
	if e.EditClosed != nil {
		e.EditClosed(nodeID)
	}
}

func (e *Events) imageResolved(nodeID, ref string) {
	if e.ImageResolved != nil {
		e.ImageResolved(nodeID, ref)
	}
}

func (e *Events) saveFailed(err error) {
	if e.SaveFailed != nil {
		e.SaveFailed(err)
	}
}
