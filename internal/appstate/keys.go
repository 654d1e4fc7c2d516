package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

type action int

const (
	actionNone action = iota
	actionMark
	actionUnmark
	actionGrow
	actionShrink
	actionClear
	actionToggleMask
	actionToggleResult
	actionNextTool
	actionSubmit
	actionSave
	actionCopy
	actionQuit
)

// radiusStep is how much one [ or ] press changes the brush.
const radiusStep = 5

// KeyShortcut describes a keyboard combination.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type binding struct {
	keys  []KeyShortcut
	act   action
	label string
}

var bindings = []binding{
	{[]KeyShortcut{{Rune: 'm'}}, actionMark, "M:Mark"},
	{[]KeyShortcut{{Rune: 'u'}, {Rune: 'e'}}, actionUnmark, "U:Unmark"},
	{[]KeyShortcut{{Rune: ']'}, {Rune: '+'}, {Rune: '='}}, actionGrow, "]:Bigger"},
	{[]KeyShortcut{{Rune: '['}, {Rune: '-'}}, actionShrink, "[:Smaller"},
	{[]KeyShortcut{{Rune: 'c'}}, actionClear, "C:Clear"},
	{[]KeyShortcut{{Rune: 'p'}}, actionToggleMask, "P:Mask"},
	{[]KeyShortcut{{Rune: 'r'}}, actionToggleResult, "R:Result"},
	{[]KeyShortcut{{Rune: 't'}}, actionNextTool, "T:Tool"},
	{[]KeyShortcut{{Code: key.CodeReturnEnter}}, actionSubmit, "Enter:Submit"},
	{[]KeyShortcut{{Rune: 's', Modifiers: key.ModControl}}, actionSave, "^S:Save"},
	{[]KeyShortcut{{Rune: 'c', Modifiers: key.ModControl}}, actionCopy, "^C:Copy"},
	{[]KeyShortcut{{Rune: 'q'}, {Code: key.CodeEscape}}, actionQuit, "Q:Quit"},
}

var keyboardAction = func() map[KeyShortcut]action {
	m := make(map[KeyShortcut]action)
	for _, b := range bindings {
		for _, k := range b.keys {
			m[k] = b.act
		}
	}
	return m
}()

// actionFor maps a key press to an action. Runes match on their lower case
// form; keys without a printable rune match on their code.
func actionFor(e key.Event) action {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return actionNone
	}
	mods := e.Modifiers & (key.ModControl | key.ModAlt | key.ModMeta)
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		if mods&key.ModControl != 0 && r < ' ' {
			// Some drivers report Ctrl+letter as the ASCII control code.
			r += 'a' - 1
		}
		if a, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return a
		}
	}
	if a, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
		return a
	}
	if mods&key.ModControl != 0 {
		switch e.Code {
		case key.CodeS:
			return actionSave
		case key.CodeC:
			return actionCopy
		}
	}
	return actionNone
}

func shortcutLabels() []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.label)
	}
	return out
}
