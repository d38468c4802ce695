// Package command implements the undo/redo stack. Every user mutation is
// captured as a reversible command; continuous edits (typing, dragging a
// size slider) merge into the entry on top of the stack instead of
// growing it.
package command

// Kind classifies mergeable commands. Two commands merge only when their
// kind and target item match.
type Kind int

const (
	KindText Kind = iota + 1
	KindSize
	KindMove
	KindResize
)

// Command is a reversible user action. Apply and Revert are pure replays
// of a captured setter with the new or old value; they never re-derive
// state.
type Command interface {
	Apply()
	Revert()
}

// MergeKey identifies a merge session: one logical edit on one item.
type MergeKey struct {
	ItemID string
	Kind   Kind
}

// Mergeable commands absorb subsequent same-key commands by replacing
// their captured new value.
type Mergeable interface {
	Command
	Key() MergeKey
	Merge(next Command) bool
}

// Property captures a single settable value: the setter, the value
// before, the value after.
type Property[T any] struct {
	itemID string
	kind   Kind
	set    func(T)
	old    T
	new    T
}

// NewProperty builds a mergeable property command. The mutation is
// assumed to have already happened; pushing does not re-apply it.
func NewProperty[T any](itemID string, kind Kind, set func(T), old, new T) *Property[T] {
	return &Property[T]{itemID: itemID, kind: kind, set: set, old: old, new: new}
}

func (p *Property[T]) Apply() {
	p.set(p.new)
}

func (p *Property[T]) Revert() {
	p.set(p.old)
}

func (p *Property[T]) Key() MergeKey {
	return MergeKey{ItemID: p.itemID, Kind: p.kind}
}

func (p *Property[T]) Merge(next Command) bool {
	other, ok := next.(*Property[T])
	if !ok || other.Key() != p.Key() {
		return false
	}
	p.new = other.new
	return true
}

// Func is a non-mergeable command built from two closures. Structural
// commands (add, remove, link) use it with captured state.
type Func struct {
	apply  func()
	revert func()
}

// NewFunc wraps apply/revert closures as a command.
func NewFunc(apply, revert func()) *Func {
	return &Func{apply: apply, revert: revert}
}

func (f *Func) Apply() {
	f.apply()
}

func (f *Func) Revert() {
	f.revert()
}
