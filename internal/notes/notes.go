package notes

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrUnknownNote is returned when a note ID is not in the table.
var ErrUnknownNote = errors.New("unknown note")

// Hand is the hand that plays a note on the keyboard.
type Hand int

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Stem is the direction of a note's stem on the staff.
type Stem int

const (
	StemUp Stem = iota
	StemDown
)

func (s Stem) String() string {
	if s == StemUp {
		return "up"
	}
	return "down"
}

// Note describes one playable pitch.
type Note struct {
	ID        string  // pitch identifier, e.g. "C4"
	Name      string  // display letter
	Frequency float64 // fundamental in Hz
	Color     string  // hex color for the key and note head
	StaffY    int     // vertical staff position, smaller is higher
	Hand      Hand
	Stem      Stem
}

// table is ordered by pitch. Never modified after init.
var table = [...]Note{
	{ID: "G3", Name: "G", Frequency: 196.00, Color: "#ef4444", StaffY: 50, Hand: Left, Stem: StemDown},
	{ID: "A3", Name: "A", Frequency: 220.00, Color: "#f97316", StaffY: 40, Hand: Left, Stem: StemDown},
	{ID: "B3", Name: "B", Frequency: 246.94, Color: "#eab308", StaffY: 30, Hand: Left, Stem: StemDown},
	{ID: "C4", Name: "C", Frequency: 261.63, Color: "#22c55e", StaffY: 140, Hand: Right, Stem: StemUp},
	{ID: "D4", Name: "D", Frequency: 293.66, Color: "#3b82f6", StaffY: 130, Hand: Right, Stem: StemUp},
	{ID: "E4", Name: "E", Frequency: 329.63, Color: "#6366f1", StaffY: 120, Hand: Right, Stem: StemUp},
	{ID: "F4", Name: "F", Frequency: 349.23, Color: "#a855f7", StaffY: 110, Hand: Right, Stem: StemUp},
}

// Count is the number of notes in the table.
const Count = len(table)

// All returns the note table in pitch order. The slice is a copy.
func All() []Note {
	out := make([]Note, len(table))
	copy(out, table[:])
	return out
}

// At returns the note at position i in pitch order.
func At(i int) Note {
	return table[i]
}

// Index returns the table position of the note with the given ID, or -1.
func Index(id string) int {
	for i, n := range table {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Lookup returns the note with the given ID.
func Lookup(id string) (Note, error) {
	i := Index(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %q", ErrUnknownNote, id)
	}
	return table[i], nil
}

// Random picks a note uniformly. A nil rng uses the global source.
func Random(rng *rand.Rand) Note {
	if rng == nil {
		return table[rand.IntN(len(table))]
	}
	return table[rng.IntN(len(table))]
}
