package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hentity/fretty/internal/pitch"
)

// Constants for UI behavior
const (
	// How long a note needs to be reported before it replaces the displayed one
	noteStabilityThreshold = 300 * time.Millisecond

	// Notes not reported for this long are forgotten
	noteHistoryTTL = 2 * time.Second

	tickInterval = 100 * time.Millisecond
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

func noteBlock(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(color)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333"))
}

// Get the next natural note (for sharp note colors)
func getNextNote(note string) string {
	const naturals = "CDEFGAB"
	i := strings.Index(naturals, note)
	if i < 0 {
		return "C"
	}
	return string(naturals[(i+1)%len(naturals)])
}

// renderNote draws a note name as a colored block. Sharps are split between
// the color of their natural and of the next natural.
func renderNote(name string) string {
	if !strings.HasSuffix(name, "#") {
		return noteBlock(noteColors[name]).Padding(2, 4).Render(name)
	}

	base := name[:1]
	left := noteBlock(noteColors[base]).
		BorderRight(false).
		PaddingLeft(2).PaddingRight(1).PaddingTop(2).PaddingBottom(2)
	right := noteBlock(noteColors[getNextNote(base)]).
		BorderLeft(false).
		PaddingLeft(1).PaddingRight(2).PaddingTop(2).PaddingBottom(2)
	return lipgloss.JoinHorizontal(lipgloss.Top, left.Render(base), right.Render("#"))
}

// TickMsg represents a timer tick
type TickMsg time.Time

// UpdateNoteMsg is a message to update the current note
type UpdateNoteMsg pitch.Note

// ClearNoteMsg tells the UI no note is currently present
type ClearNoteMsg struct{}

// UpdateAudioLevelMsg reports the input level of the last buffer
type UpdateAudioLevelMsg struct {
	RMS float64
	DB  float64
}

// Model represents the UI state
type Model struct {
	title        string
	currentNote  *pitch.Note
	stableNote   *pitch.Note
	notesHistory map[string]time.Time // When each note was first reported
	level        *UpdateAudioLevelMsg
	now          func() time.Time
	width        int
	height       int
}

// NewModel creates a new UI model
func NewModel(title string) Model {
	return Model{
		title:        title,
		notesHistory: make(map[string]time.Time),
		now:          time.Now,
	}
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		now := m.now()
		for note, firstSeen := range m.notesHistory {
			if now.Sub(firstSeen) > noteHistoryTTL {
				delete(m.notesHistory, note)
			}
		}
		return m, tick()

	case UpdateAudioLevelMsg:
		m.level = &msg

	case ClearNoteMsg:
		m.currentNote = nil
		m.stableNote = nil
		clear(m.notesHistory)

	case UpdateNoteMsg:
		note := pitch.Note(msg)
		m.currentNote = &note

		now := m.now()
		firstSeen, seen := m.notesHistory[note.Name]
		if !seen {
			m.notesHistory[note.Name] = now
			firstSeen = now
		}

		// The first note shows immediately; later ones must persist first
		if m.stableNote == nil || m.stableNote.Name == note.Name ||
			now.Sub(firstSeen) >= noteStabilityThreshold {
			m.stableNote = &note
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if note := m.stableNote; note != nil {
		b.WriteString(renderNote(note.Name))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Frequency: %.2f Hz | Cents: %+.1f", note.Frequency, note.Cents)))
	} else {
		b.WriteString(infoStyle.Render("Listening for audio..."))
	}

	if m.level != nil {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Level: %.1f dB (RMS %.4f)", m.level.DB, m.level.RMS)))
	}

	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("Press q to quit"))
	return b.String()
}
