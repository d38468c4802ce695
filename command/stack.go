package command

// DefaultLimit bounds stack growth for long editing sessions.
const DefaultLimit = 500

// Stack holds executed commands. Push assumes the action already ran, so
// the initial push does not call Apply; Undo and Redo replay captured
// values.
type Stack struct {
	commands []Command
	index    int // number of commands currently applied
	limit    int
}

// NewStack creates a stack with the given capacity. Zero or negative
// takes the default.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records an executed command. A mergeable command whose key
// matches the top entry merges into it instead of growing the stack.
// Any redoable tail is discarded.
func (s *Stack) Push(c Command) {
	if s.index < len(s.commands) {
		s.commands = s.commands[:s.index]
	}
	if m, ok := c.(Mergeable); ok && s.index > 0 {
		if top, ok := s.commands[s.index-1].(Mergeable); ok && top.Key() == m.Key() {
			if top.Merge(c) {
				return
			}
		}
	}
	s.commands = append(s.commands, c)
	if len(s.commands) > s.limit {
		s.commands = s.commands[1:]
	}
	s.index = len(s.commands)
}

// CanUndo reports whether an applied command remains.
func (s *Stack) CanUndo() bool {
	return s.index > 0
}

// CanRedo reports whether an undone command remains.
func (s *Stack) CanRedo() bool {
	return s.index < len(s.commands)
}

// Undo reverts the most recent command. Returns false when there is
// nothing to undo.
func (s *Stack) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.index--
	s.commands[s.index].Revert()
	return true
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.commands[s.index].Apply()
	s.index++
	return true
}

// Len returns the number of recorded commands.
func (s *Stack) Len() int {
	return len(s.commands)
}

// Clear drops all history.
func (s *Stack) Clear() {
	s.commands = s.commands[:0]
	s.index = 0
}
