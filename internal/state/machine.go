package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dczia/Defcon32-Badge/internal/metrics"
)

// State is one named screen of the badge UI. Enter and Exit run on
// transition; Update runs every tick while the state is current. Update must
// be cheap and non-blocking since there is no scheduler behind it, and Enter
// must be idempotent with respect to the display.
type State interface {
	Name() string
	Enter(m *Machine) error
	Exit(m *Machine) error
	Update(m *Machine) error
}

// Machine owns the registry of named states and the single current state.
// Exactly one state is current at any time once the first GoTo has run.
// Machine is not safe for concurrent use; the driver loop is the only caller.
type Machine struct {
	states  map[string]State
	current State
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Guards against a state's Enter/Exit hook starting a second
	// transition before the first completes.
	inTransition bool
}

// NewMachine creates an empty state machine. metrics may be nil.
func NewMachine(logger *slog.Logger, m *metrics.Metrics) *Machine {
	return &Machine{
		states:  make(map[string]State),
		logger:  logger,
		metrics: m,
	}
}

// AddState registers a state under its name. Registering a second state
// with the same name is a wiring bug and fails.
func (m *Machine) AddState(s State) error {
	name := s.Name()
	if name == "" {
		return fmt.Errorf("state name cannot be empty")
	}

	if _, exists := m.states[name]; exists {
		return fmt.Errorf("state %q already registered", name)
	}

	m.states[name] = s
	return nil
}

// GoTo transitions to the named state: the current state's Exit hook runs
// first, then the new state becomes current and its Enter hook runs. An
// unregistered name is a fatal configuration error.
func (m *Machine) GoTo(name string) error {
	if m.inTransition {
		return fmt.Errorf("cannot transition to %q: another transition is in progress", name)
	}

	next, ok := m.states[name]
	if !ok {
		return fmt.Errorf("state not found: %q", name)
	}

	m.inTransition = true
	defer func() { m.inTransition = false }()

	from := "none"
	if m.current != nil {
		from = m.current.Name()
		if err := m.current.Exit(m); err != nil {
			if m.metrics != nil {
				m.metrics.RecordHookError(from, "exit")
			}
			return fmt.Errorf("exit hook of %q failed: %w", from, err)
		}
	}

	m.current = next
	if err := next.Enter(m); err != nil {
		if m.metrics != nil {
			m.metrics.RecordHookError(name, "enter")
		}
		return fmt.Errorf("enter hook of %q failed: %w", name, err)
	}

	if m.metrics != nil {
		m.metrics.RecordStateTransition(from, name)
	}

	m.logger.Debug("State transition",
		slog.String("from", from),
		slog.String("to", name),
	)

	return nil
}

// Update runs the current state's Update hook once
func (m *Machine) Update() error {
	if m.metrics != nil {
		m.metrics.RecordUpdateTick()
	}

	if m.current == nil {
		return fmt.Errorf("no current state")
	}

	if err := m.current.Update(m); err != nil {
		if m.metrics != nil {
			m.metrics.RecordHookError(m.current.Name(), "update")
		}
		return fmt.Errorf("update hook of %q failed: %w", m.current.Name(), err)
	}

	return nil
}

// Current returns the name of the current state, or "" before the first GoTo
func (m *Machine) Current() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Run drives Update until ctx is cancelled or a hook fails. A zero tick
// spins without pacing; a positive tick paces updates so the host build
// does not burn a core.
func (m *Machine) Run(ctx context.Context, tick time.Duration) error {
	var ticker *time.Ticker
	if tick > 0 {
		ticker = time.NewTicker(tick)
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := m.Update(); err != nil {
			return err
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}
