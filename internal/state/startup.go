package state

import "github.com/dczia/Defcon32-Badge/internal/periph"

// StartupState shows the splash screen until the button is pressed
type StartupState struct {
	display periph.Display
	latch   pressLatch
}

// NewStartupState creates the splash screen state
func NewStartupState(display periph.Display, button periph.Button) *StartupState {
	return &StartupState{display: display, latch: pressLatch{button: button}}
}

func (s *StartupState) Name() string { return "startup" }

func (s *StartupState) Enter(m *Machine) error {
	s.display.Clear()
	s.display.DrawText(0, 0, "DCZia", green)
	s.display.DrawText(0, 16, "Press to begin", white)
	return nil
}

func (s *StartupState) Exit(m *Machine) error {
	return nil
}

func (s *StartupState) Update(m *Machine) error {
	if s.latch.Fired() {
		return m.GoTo("menu")
	}
	return nil
}
