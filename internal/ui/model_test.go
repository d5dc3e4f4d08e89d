package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hentity/fretty/internal/pitch"
)

// fakeClock lets tests step the model's notion of time.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel() (Model, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewModel("Fretty")
	m.now = clock.now
	return m, clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelShowsNote(t *testing.T) {
	m, _ := newTestModel()
	if !strings.Contains(m.View(), "Listening for audio...") {
		t.Fatalf("initial view missing listening prompt:\n%s", m.View())
	}

	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "A", Frequency: 440, Cents: 0}))
	view := m.View()
	for _, want := range []string{"Fretty", "A", "Frequency: 440.00 Hz", "Cents: +0.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelSharpNote(t *testing.T) {
	m, _ := newTestModel()
	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "C#", Frequency: 277.18, Cents: 1.5}))
	view := m.View()
	if !strings.Contains(view, "C") || !strings.Contains(view, "#") || !strings.Contains(view, "Cents: +1.5") {
		t.Fatalf("sharp note not rendered:\n%s", view)
	}
}

func TestModelStability(t *testing.T) {
	m, clock := newTestModel()

	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "A", Frequency: 440}))
	if m.stableNote == nil || m.stableNote.Name != "A" {
		t.Fatal("first note not shown immediately")
	}

	// A different note must persist before it replaces the shown one.
	clock.t = clock.t.Add(50 * time.Millisecond)
	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "E", Frequency: 329.63}))
	if m.stableNote.Name != "A" {
		t.Fatalf("stable note = %s, want A while E is new", m.stableNote.Name)
	}
	if m.currentNote.Name != "E" {
		t.Fatalf("current note = %s, want E", m.currentNote.Name)
	}

	clock.t = clock.t.Add(noteStabilityThreshold)
	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "E", Frequency: 329.63}))
	if m.stableNote.Name != "E" {
		t.Fatalf("stable note = %s, want E after threshold", m.stableNote.Name)
	}
}

func TestModelClearAndExpire(t *testing.T) {
	m, clock := newTestModel()
	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "G", Frequency: 196}))
	m = update(t, m, ClearNoteMsg{})
	if m.stableNote != nil || m.currentNote != nil || len(m.notesHistory) != 0 {
		t.Fatal("ClearNoteMsg left note state behind")
	}
	if !strings.Contains(m.View(), "Listening for audio...") {
		t.Fatal("cleared view missing listening prompt")
	}

	m = update(t, m, UpdateNoteMsg(pitch.Note{Name: "G", Frequency: 196}))
	clock.t = clock.t.Add(noteHistoryTTL + time.Second)
	next, cmd := m.Update(TickMsg(clock.t))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	if len(m.notesHistory) != 0 {
		t.Fatalf("history not expired: %v", m.notesHistory)
	}
}

func TestModelLevelAndQuit(t *testing.T) {
	m, _ := newTestModel()
	m = update(t, m, UpdateAudioLevelMsg{RMS: 0.05, DB: -26.02})
	if !strings.Contains(m.View(), "Level: -26.0 dB") {
		t.Fatalf("level not rendered:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestGetNextNote(t *testing.T) {
	for in, want := range map[string]string{"C": "D", "F": "G", "B": "C", "X": "C"} {
		if got := getNextNote(in); got != want {
			t.Errorf("getNextNote(%q) = %q, want %q", in, got, want)
		}
	}
}
