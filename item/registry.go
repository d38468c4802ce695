package item

import "weave/diagram"

// IconRegistry is a process-wide immutable lookup from icon names to
// renderable glyphs and from event subtypes to their default icon. It is
// passed in explicitly wherever icons are resolved; nothing in the
// engine reaches for it ambiently.
type IconRegistry struct {
	subtypeIcons map[string]string
	glyphs       map[string]rune
}

// NewIconRegistry builds the registry with the stock subtype mapping.
func NewIconRegistry() *IconRegistry {
	return &IconRegistry{
		subtypeIcons: map[string]string{
			diagram.SubtypeGoal:          "target",
			diagram.SubtypeConflict:      "swords",
			diagram.SubtypeBackstory:     "history",
			diagram.SubtypeDisturbance:   "bolt",
			diagram.SubtypeQuestion:      "question",
			diagram.SubtypeSetup:         "seedling",
			diagram.SubtypeForeshadowing: "crystal-ball",
		},
		glyphs: map[string]rune{
			"target":       '◎',
			"swords":       '⚔',
			"history":      '↺',
			"bolt":         '⚡',
			"question":     '?',
			"seedling":     '⌱',
			"crystal-ball": '●',
			"heart":        '♥',
			"star":         '★',
		},
	}
}

// SubtypeIcon returns the default icon name for an event subtype, or
// empty when the subtype has none.
func (r *IconRegistry) SubtypeIcon(subtype string) string {
	return r.subtypeIcons[subtype]
}

// Glyph returns a single-rune rendering of an icon name. Unknown icons
// render as a generic marker.
func (r *IconRegistry) Glyph(icon string) rune {
	if g, ok := r.glyphs[icon]; ok {
		return g
	}
	return '◆'
}
