package scene

// Mode is the interactive state the scene is in. The scene is long-lived;
// every mode eventually returns to ModeIdle.
type Mode int

const (
	ModeIdle     Mode = iota // nothing in flight
	ModeAddition             // next left release places a new node
	ModeLink                 // placeholder connector follows the pointer
	ModeDrag                 // a node body is being dragged
	ModeResize               // a resize handle is being dragged
)

// String returns the mode name for display.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeAddition:
		return "ADD"
	case ModeLink:
		return "LINK"
	case ModeDrag:
		return "DRAG"
	case ModeResize:
		return "RESIZE"
	default:
		return "UNKNOWN"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key identifies the keyboard inputs the scene reacts to. Everything
// else is the host's business.
type Key int

const (
	KeyEscape Key = iota
	KeyDelete
	KeyBackspace
	KeyCopy
	KeyPaste
)

// ItemDescriptor remembers what kind of node to place next: the palette
// selection in addition mode, or the copied node's type for paste.
type ItemDescriptor struct {
	Type    string
	Subtype string
}
