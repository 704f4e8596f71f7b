package state

import "github.com/dczia/Defcon32-Badge/internal/periph"

// PartyState clears the display and shows a static label on entry, then
// waits for a button press to return to the menu. It is the template every
// concrete state follows: cheap non-blocking Update, idempotent Enter.
type PartyState struct {
	display periph.Display
	button  periph.Button
}

// NewPartyState creates the party mode screen
func NewPartyState(display periph.Display, button periph.Button) *PartyState {
	return &PartyState{display: display, button: button}
}

func (s *PartyState) Name() string { return "party" }

func (s *PartyState) Enter(m *Machine) error {
	s.display.Clear()
	s.display.DrawText(0, 0, "Party Mode", white)
	return nil
}

func (s *PartyState) Exit(m *Machine) error {
	return nil
}

func (s *PartyState) Update(m *Machine) error {
	if s.button.Pressed() {
		return m.GoTo("menu")
	}
	return nil
}
