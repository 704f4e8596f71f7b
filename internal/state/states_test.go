package state

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dczia/Defcon32-Badge/internal/sstv"
	"github.com/dczia/Defcon32-Badge/internal/wav"
)

// writeTestImage writes a small PNG and returns its path
func writeTestImage(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}

	path := filepath.Join(t.TempDir(), "badge.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	return path
}

// mockDisplay records draw operations
type mockDisplay struct {
	clears int
	texts  []string
	images int
	width  int
	height int
}

func newMockDisplay() *mockDisplay {
	return &mockDisplay{width: 320, height: 240}
}

func (d *mockDisplay) Clear() { d.clears++ }

func (d *mockDisplay) DrawText(x, y int, text string, c color.RGBA) {
	d.texts = append(d.texts, text)
}

func (d *mockDisplay) DrawImage(x, y int, img image.Image) { d.images++ }

func (d *mockDisplay) Size() (int, int) { return d.width, d.height }

func (d *mockDisplay) drewText(text string) int {
	count := 0
	for _, t := range d.texts {
		if t == text {
			count++
		}
	}
	return count
}

// mockButton is a settable digital input
type mockButton struct {
	down bool
}

func (b *mockButton) Pressed() bool { return b.down }

// mockRotary yields queued deltas
type mockRotary struct {
	deltas []int
}

func (r *mockRotary) Delta() int {
	if len(r.deltas) == 0 {
		return 0
	}
	d := r.deltas[0]
	r.deltas = r.deltas[1:]
	return d
}

// idleState is a minimal registered transition target
type idleState struct {
	name   string
	enters int
}

func (s *idleState) Name() string            { return s.name }
func (s *idleState) Enter(m *Machine) error  { s.enters++; return nil }
func (s *idleState) Exit(m *Machine) error   { return nil }
func (s *idleState) Update(m *Machine) error { return nil }

func TestPartyStateScenario(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}
	menu := &idleState{name: "menu"}

	m := NewMachine(testLogger(), nil)
	party := NewPartyState(display, button)
	if err := m.AddState(party); err != nil {
		t.Fatalf("AddState(party) failed: %v", err)
	}
	if err := m.AddState(menu); err != nil {
		t.Fatalf("AddState(menu) failed: %v", err)
	}

	if err := m.GoTo("party"); err != nil {
		t.Fatalf("GoTo(party) failed: %v", err)
	}

	// Display cleared and label drawn exactly once
	if display.clears != 1 {
		t.Errorf("Expected 1 display clear, got %d", display.clears)
	}
	if got := display.drewText("Party Mode"); got != 1 {
		t.Errorf("Expected 'Party Mode' drawn exactly once, got %d", got)
	}

	// Unpressed button: no transition
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "party" {
		t.Errorf("Expected to stay in party, got %q", m.Current())
	}

	// Press transitions to menu exactly once
	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "menu" {
		t.Errorf("Expected transition to menu, got %q", m.Current())
	}
	if menu.enters != 1 {
		t.Errorf("Expected menu entered exactly once, got %d", menu.enters)
	}
}

func TestStartupStateWaitsForPress(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}

	m := NewMachine(testLogger(), nil)
	if err := m.AddState(NewStartupState(display, button)); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	if err := m.AddState(&idleState{name: "menu"}); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	if err := m.GoTo("startup"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}

	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "startup" {
		t.Errorf("Expected to stay in startup, got %q", m.Current())
	}

	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "menu" {
		t.Errorf("Expected transition to menu, got %q", m.Current())
	}
}

func TestMenuStateNavigation(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}
	rotary := &mockRotary{}

	entries := []MenuEntry{
		{Label: "Party", Target: "party"},
		{Label: "Image", Target: "image"},
		{Label: "SSTV TX", Target: "sstv_encode"},
	}

	m := NewMachine(testLogger(), nil)
	menu := NewMenuState(display, button, rotary, entries)
	if err := m.AddState(menu); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	for _, name := range []string{"party", "image", "sstv_encode"} {
		if err := m.AddState(&idleState{name: name}); err != nil {
			t.Fatalf("AddState(%s) failed: %v", name, err)
		}
	}

	if err := m.GoTo("menu"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}

	if menu.Selected() != "Party" {
		t.Errorf("Expected initial selection 'Party', got %q", menu.Selected())
	}

	// One detent clockwise
	rotary.deltas = []int{1}
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if menu.Selected() != "Image" {
		t.Errorf("Expected selection 'Image', got %q", menu.Selected())
	}

	// Wrap backwards past the start
	rotary.deltas = []int{-2}
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if menu.Selected() != "SSTV TX" {
		t.Errorf("Expected wrap-around to 'SSTV TX', got %q", menu.Selected())
	}

	// Activate the selection
	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "sstv_encode" {
		t.Errorf("Expected transition to sstv_encode, got %q", m.Current())
	}
}

// fakeEncoder produces a fixed tone regardless of input
type fakeEncoder struct {
	mode    sstv.Mode
	encodes int
}

func (e *fakeEncoder) Mode() sstv.Mode { return e.mode }

func (e *fakeEncoder) Encode(img image.Image) ([]int16, error) {
	e.encodes++
	return []int16{100, 200, 300, 400}, nil
}

// memStorage captures created files in memory
type memStorage struct {
	files map[string]*bytes.Buffer
}

type memFile struct {
	*bytes.Buffer
}

func (f memFile) Close() error { return nil }

func (s *memStorage) Create(name string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	s.files[name] = buf
	return memFile{buf}, nil
}

func (s *memStorage) Unmount() error { return nil }

func TestSSTVEncoderStateWritesTransmission(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}
	storage := &memStorage{files: make(map[string]*bytes.Buffer)}
	encoder := &fakeEncoder{mode: sstv.Mode{Name: "Scottie S1", Width: 320, Height: 256, SampleRate: 22050}}

	// The state tolerates a missing source image by reporting failure, so
	// give it a real one.
	imgPath := writeTestImage(t)

	m := NewMachine(testLogger(), nil)
	s := NewSSTVEncoderState(display, button, encoder, storage, imgPath, "sstv.wav")
	if err := m.AddState(s); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	if err := m.AddState(&idleState{name: "menu"}); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	if err := m.GoTo("sstv_encode"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}

	// First tick performs the encode
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if encoder.encodes != 1 {
		t.Fatalf("Expected exactly one encode, got %d", encoder.encodes)
	}

	data := storage.files["sstv.wav"]
	if data == nil {
		t.Fatal("Expected transmission file to be written")
	}

	header, err := wav.Parse(data.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse transmission header: %v", err)
	}
	if header.SampleRate != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", header.SampleRate)
	}
	if header.NumSamples != 4 {
		t.Errorf("Expected 4 samples, got %d", header.NumSamples)
	}

	// Further ticks do not re-encode; button returns to menu
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if encoder.encodes != 1 {
		t.Errorf("Expected no re-encode, got %d encodes", encoder.encodes)
	}

	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "menu" {
		t.Errorf("Expected transition to menu, got %q", m.Current())
	}
}

// fakeDecoder emits one scan line per feed
type fakeDecoder struct {
	mode   sstv.Mode
	resets int
	line   int
}

func (d *fakeDecoder) Mode() sstv.Mode { return d.mode }

func (d *fakeDecoder) Feed(samples []int16) ([]sstv.Line, error) {
	line := sstv.Line{Index: d.line, Pixels: make([]uint8, 3*d.mode.Width)}
	d.line++
	return []sstv.Line{line}, nil
}

func (d *fakeDecoder) Reset() { d.resets++ }

// toneInput yields a constant non-zero chunk
type toneInput struct{}

func (toneInput) ReadInto(buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0x40
	}
	return len(buf), nil
}

func (toneInput) Close() error { return nil }

func TestSSTVDecoderStateDrawsLines(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}
	decoder := &fakeDecoder{mode: sstv.Mode{Name: "Robot 36", Width: 320, Height: 240, SampleRate: 11025}}

	m := NewMachine(testLogger(), nil)
	if err := m.AddState(NewSSTVDecoderState(display, button, decoder, toneInput{})); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	if err := m.AddState(&idleState{name: "menu"}); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	if err := m.GoTo("sstv_decode"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}

	if decoder.resets != 1 {
		t.Errorf("Expected decoder reset on enter, got %d", decoder.resets)
	}

	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if display.images != 1 {
		t.Errorf("Expected 1 decoded line drawn, got %d", display.images)
	}

	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "menu" {
		t.Errorf("Expected transition to menu, got %q", m.Current())
	}
}

func TestImageDisplayStateMissingFile(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}

	m := NewMachine(testLogger(), nil)
	if err := m.AddState(NewImageDisplayState(display, button, "/nonexistent.png")); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	if err := m.AddState(&idleState{name: "menu"}); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	// Missing image is non-fatal: the state reports it on screen
	if err := m.GoTo("image"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if got := display.drewText("No image"); got != 1 {
		t.Errorf("Expected 'No image' drawn once, got %d", got)
	}

	button.down = true
	if err := m.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if m.Current() != "menu" {
		t.Errorf("Expected transition to menu, got %q", m.Current())
	}
}

func TestImageDisplayStateDrawsImage(t *testing.T) {
	display := newMockDisplay()
	button := &mockButton{}

	m := NewMachine(testLogger(), nil)
	if err := m.AddState(NewImageDisplayState(display, button, writeTestImage(t))); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	if err := m.GoTo("image"); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}

	if display.images != 1 {
		t.Errorf("Expected image drawn once, got %d", display.images)
	}
}
