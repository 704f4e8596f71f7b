// Package sim provides a terminal stand-in for the badge hardware: a Bubble
// Tea program that renders the display framebuffer with lipgloss and maps
// keyboard input to the button and rotary encoder, so every UI state can be
// exercised without a badge attached.
package sim

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dczia/Defcon32-Badge/internal/state"
)

// Character cell geometry: one terminal cell stands for an 8x16 pixel block
// of the 320x240 panel.
const (
	cellWidth   = 8
	cellHeight  = 16
	panelWidth  = 320
	panelHeight = 240
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

type cell struct {
	ch rune
	fg color.RGBA
}

// Badge implements the display, button, and rotary encoder peripherals over
// a shared framebuffer. It is safe for concurrent use; the Bubble Tea loop
// and the state machine tick run in the same goroutine, but tests may poke
// inputs from outside.
type Badge struct {
	mu      sync.Mutex
	cells   [][]cell
	pressed bool
	detents int
}

// NewBadge creates a badge with a cleared framebuffer
func NewBadge() *Badge {
	b := &Badge{}
	b.Clear()
	return b
}

func (b *Badge) rows() int { return panelHeight / cellHeight }
func (b *Badge) cols() int { return panelWidth / cellWidth }

// Clear blanks the framebuffer
func (b *Badge) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cells = make([][]cell, b.rows())
	for y := range b.cells {
		b.cells[y] = make([]cell, b.cols())
		for x := range b.cells[y] {
			b.cells[y][x] = cell{ch: ' '}
		}
	}
}

// DrawText places text at the pixel coordinates, snapped to the cell grid
func (b *Badge) DrawText(x, y int, text string, c color.RGBA) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row := y / cellHeight
	col := x / cellWidth
	if row < 0 || row >= len(b.cells) {
		return
	}

	for i, ch := range text {
		if col+i >= len(b.cells[row]) {
			break
		}
		b.cells[row][col+i] = cell{ch: ch, fg: c}
	}
}

// DrawImage renders img as colored blocks downsampled to the cell grid
func (b *Badge) DrawImage(x, y int, img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bounds := img.Bounds()
	for py := bounds.Min.Y; py < bounds.Max.Y; py += cellHeight {
		for px := bounds.Min.X; px < bounds.Max.X; px += cellWidth {
			row := (y + py - bounds.Min.Y) / cellHeight
			col := (x + px - bounds.Min.X) / cellWidth
			if row < 0 || row >= len(b.cells) || col < 0 || col >= len(b.cells[row]) {
				continue
			}
			r, g, bl, _ := img.At(px, py).RGBA()
			b.cells[row][col] = cell{ch: '█', fg: color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 255}}
		}
	}
}

// Size returns the emulated panel dimensions in pixels
func (b *Badge) Size() (int, int) {
	return panelWidth, panelHeight
}

// Pressed reports whether the button is held this tick
func (b *Badge) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

// Delta returns and clears accumulated rotary detents
func (b *Badge) Delta() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.detents
	b.detents = 0
	return d
}

func (b *Badge) press() { b.mu.Lock(); b.pressed = true; b.mu.Unlock() }

func (b *Badge) release() { b.mu.Lock(); b.pressed = false; b.mu.Unlock() }

func (b *Badge) rotate(d int) { b.mu.Lock(); b.detents += d; b.mu.Unlock() }

// render returns the framebuffer as styled terminal rows
func (b *Badge) render() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for y, row := range b.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			if c.ch == ' ' {
				sb.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(
				fmt.Sprintf("#%02X%02X%02X", c.fg.R, c.fg.G, c.fg.B)))
			sb.WriteString(style.Render(string(c.ch)))
		}
	}
	return sb.String()
}

type tickMsg time.Time

// Model is the Bubble Tea model driving the state machine
type Model struct {
	badge   *Badge
	machine *state.Machine
	tick    time.Duration
	err     error
}

// NewModel wires a badge and a state machine into a runnable model
func NewModel(badge *Badge, machine *state.Machine, tick time.Duration) Model {
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	return Model{badge: badge, machine: machine, tick: tick}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			m.badge.press()
		case "up", "left":
			m.badge.rotate(-1)
		case "down", "right":
			m.badge.rotate(1)
		}
		return m, nil

	case tickMsg:
		if err := m.machine.Update(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		// The button reads as held for exactly one tick per key press
		m.badge.release()
		return m, m.tickCmd()
	}

	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(frameStyle.Render(m.badge.render()))
	sb.WriteByte('\n')
	sb.WriteString(helpStyle.Render("space/enter: button  arrows: rotary  q: quit"))
	if m.err != nil {
		sb.WriteByte('\n')
		sb.WriteString(m.err.Error())
	}
	return sb.String()
}

// Run drives the simulator until quit or machine failure
func Run(ctx context.Context, badge *Badge, machine *state.Machine, tick time.Duration) error {
	model := NewModel(badge, machine, tick)
	program := tea.NewProgram(model, tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("simulator failed: %w", err)
	}

	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}

	return nil
}
