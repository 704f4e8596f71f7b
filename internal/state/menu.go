package state

import (
	"github.com/dczia/Defcon32-Badge/internal/periph"
)

// MenuEntry maps a visible label to the state it activates
type MenuEntry struct {
	Label  string
	Target string
}

// MenuState scrolls a list of entries with the rotary encoder and activates
// the selected one on button press.
type MenuState struct {
	display periph.Display
	rotary  periph.RotaryEncoder
	latch   pressLatch
	entries []MenuEntry
	cursor  int
}

// NewMenuState creates the menu screen over the given entries
func NewMenuState(display periph.Display, button periph.Button, rotary periph.RotaryEncoder, entries []MenuEntry) *MenuState {
	return &MenuState{
		display: display,
		rotary:  rotary,
		latch:   pressLatch{button: button},
		entries: entries,
	}
}

func (s *MenuState) Name() string { return "menu" }

func (s *MenuState) Enter(m *Machine) error {
	// Drain rotation accumulated while another state was active
	s.rotary.Delta()
	s.draw()
	return nil
}

func (s *MenuState) Exit(m *Machine) error {
	return nil
}

func (s *MenuState) Update(m *Machine) error {
	if delta := s.rotary.Delta(); delta != 0 && len(s.entries) > 0 {
		s.cursor = ((s.cursor+delta)%len(s.entries) + len(s.entries)) % len(s.entries)
		s.draw()
	}

	if s.latch.Fired() && len(s.entries) > 0 {
		return m.GoTo(s.entries[s.cursor].Target)
	}

	return nil
}

// Selected returns the label of the highlighted entry
func (s *MenuState) Selected() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[s.cursor].Label
}

func (s *MenuState) draw() {
	s.display.Clear()
	s.display.DrawText(0, 0, "Menu", green)
	for i, e := range s.entries {
		c := white
		label := "  " + e.Label
		if i == s.cursor {
			c = yellow
			label = "> " + e.Label
		}
		s.display.DrawText(0, 16*(i+1), label, c)
	}
}
