package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// KeyAction represents an action that can be triggered by keybindings
type KeyAction struct {
	name    string
	handler func()
}

// KeyBindingManager manages all keybindings and dispatches events
type KeyBindingManager struct {
	bindings  map[tcell.Key]KeyAction // special key -> action mapping
	runeMap   map[rune]KeyAction      // rune -> action mapping
	sequences map[string]KeyAction    // multi-key bindings like 'gg'
	pending   string                  // pending key sequence
}

// NewKeyBindingManager creates a new key binding manager
func NewKeyBindingManager() *KeyBindingManager {
	return &KeyBindingManager{
		bindings:  make(map[tcell.Key]KeyAction),
		runeMap:   make(map[rune]KeyAction),
		sequences: make(map[string]KeyAction),
	}
}

// RegisterKeyBinding registers a single key binding
func (km *KeyBindingManager) RegisterKeyBinding(action KeyAction, keys []tcell.Key, runes []rune) {
	for _, key := range keys {
		km.bindings[key] = action
	}
	for _, r := range runes {
		km.runeMap[r] = action
	}
}

// RegisterSequence binds a multi-rune sequence such as "gg"
func (km *KeyBindingManager) RegisterSequence(action KeyAction, seq string) {
	km.sequences[seq] = action
}

func (km *KeyBindingManager) isPrefix(s string) bool {
	for seq := range km.sequences {
		if len(seq) > len(s) && strings.HasPrefix(seq, s) {
			return true
		}
	}
	return false
}

// HandleKey handles a keyboard event and returns true if it was consumed
func (km *KeyBindingManager) HandleKey(event *tcell.EventKey) bool {
	// Check for special keys first
	if event.Key() != tcell.KeyRune {
		km.pending = "" // reset pending sequence on non-rune key
		if action, ok := km.bindings[event.Key()]; ok {
			action.handler()
			return true
		}
		return false
	}

	r := event.Rune()

	if km.pending != "" {
		candidate := km.pending + string(r)
		if action, ok := km.sequences[candidate]; ok {
			km.pending = ""
			action.handler()
			return true
		}
		if km.isPrefix(candidate) {
			km.pending = candidate
			return true
		}
		// Not a complete sequence, try current rune on its own
		km.pending = ""
	}

	// Start potential sequence
	if km.isPrefix(string(r)) {
		km.pending = string(r)
		return true
	}

	// Single character binding
	if action, ok := km.runeMap[r]; ok {
		action.handler()
		return true
	}
	return false
}

// ResetPending resets the pending key sequence
func (km *KeyBindingManager) ResetPending() {
	km.pending = ""
}
