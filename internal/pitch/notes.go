package pitch

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// outOfRangeToleranceHz is how far outside the table a frequency may be and
// still snap to the first or last note.
const outOfRangeToleranceHz = 3.0

type noteEntry struct {
	name      string // with octave, e.g. "C#3"
	frequency float64
}

type noteTable struct {
	byName map[string]float64
	sorted []noteEntry // ascending frequency
}

// Musical note frequencies (A4 = 440Hz), D2 through B5
var noteTableData = []noteEntry{
	{"D2", 73.42}, {"D#2", 77.78}, {"E2", 82.41}, {"F2", 87.31},
	{"F#2", 92.50}, {"G2", 98.00}, {"G#2", 103.83}, {"A2", 110.00},
	{"A#2", 116.54}, {"B2", 123.47},

	{"C3", 130.81}, {"C#3", 138.59}, {"D3", 146.83}, {"D#3", 155.56},
	{"E3", 164.81}, {"F3", 174.61}, {"F#3", 185.00}, {"G3", 196.00},
	{"G#3", 207.65}, {"A3", 220.00}, {"A#3", 233.08}, {"B3", 246.94},

	{"C4", 261.63}, {"C#4", 277.18}, {"D4", 293.66}, {"D#4", 311.13},
	{"E4", 329.63}, {"F4", 349.23}, {"F#4", 369.99}, {"G4", 392.00},
	{"G#4", 415.30}, {"A4", 440.00}, {"A#4", 466.16}, {"B4", 493.88},

	{"C5", 523.25}, {"C#5", 554.37}, {"D5", 587.33}, {"D#5", 622.25},
	{"E5", 659.25}, {"F5", 698.46}, {"F#5", 739.99}, {"G5", 783.99},
	{"G#5", 830.61}, {"A5", 880.00}, {"A#5", 932.33}, {"B5", 987.77},
}

// notes is built on first use and never written afterwards.
var notes = sync.OnceValue(func() *noteTable {
	t := &noteTable{
		byName: make(map[string]float64, len(noteTableData)),
		sorted: make([]noteEntry, len(noteTableData)),
	}
	copy(t.sorted, noteTableData)
	sort.Slice(t.sorted, func(i, j int) bool {
		return t.sorted[i].frequency < t.sorted[j].frequency
	})
	for _, e := range t.sorted {
		t.byName[e.name] = e.frequency
	}
	return t
})

// NoteToFrequency returns the frequency of a note name with octave, e.g. "A4".
func NoteToFrequency(name string) (float64, bool) {
	f, ok := notes().byName[name]
	return f, ok
}

// FrequencyToNote returns the octave-less name of the note nearest to freq.
// Inside the table range the nearest note always matches; outside it the
// note must be within 3 Hz.
func FrequencyToNote(freq float64) (string, bool) {
	name, _, ok := NearestNote(freq)
	return name, ok
}

// NearestNote is FrequencyToNote that also reports the matched table frequency.
func NearestNote(freq float64) (name string, ref float64, ok bool) {
	if math.IsNaN(freq) {
		return "", 0, false
	}

	t := notes()
	best := t.sorted[0]
	bestDist := math.Abs(freq - best.frequency)
	for _, e := range t.sorted[1:] {
		if d := math.Abs(freq - e.frequency); d < bestDist {
			best, bestDist = e, d
		}
	}

	lo, hi := t.sorted[0].frequency, t.sorted[len(t.sorted)-1].frequency
	inRange := freq >= lo && freq <= hi
	if !inRange && bestDist > outOfRangeToleranceHz {
		return "", 0, false
	}
	return stripOctave(best.name), best.frequency, true
}

// NoteNames lists every table entry (with octave) in ascending frequency.
func NoteNames() []string {
	t := notes()
	names := make([]string, len(t.sorted))
	for i, e := range t.sorted {
		names[i] = e.name
	}
	return names
}

// Cents returns the interval from ref to freq in cents.
func Cents(freq, ref float64) float64 {
	return 1200 * math.Log2(freq/ref)
}

func stripOctave(name string) string {
	return strings.TrimRight(name, "0123456789")
}
