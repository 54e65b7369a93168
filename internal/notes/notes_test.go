package notes

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestNoteCount(t *testing.T) {
	if got := len(All()); got != 7 {
		t.Errorf("Expected 7 notes, got %d", got)
	}
	if Count != 7 {
		t.Errorf("Count = %d, want 7", Count)
	}
}

func TestFrequenciesStrictlyIncrease(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i].Frequency <= all[i-1].Frequency {
			t.Errorf("%s (%v Hz) not above %s (%v Hz)", all[i].ID, all[i].Frequency, all[i-1].ID, all[i-1].Frequency)
		}
	}
}

func TestIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range All() {
		if seen[n.ID] {
			t.Errorf("Duplicate note ID: %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestTableOrder(t *testing.T) {
	want := []string{"G3", "A3", "B3", "C4", "D4", "E4", "F4"}
	for i, n := range All() {
		if n.ID != want[i] {
			t.Errorf("note[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestHandsAndStems(t *testing.T) {
	for _, n := range All() {
		switch n.ID {
		case "G3", "A3", "B3":
			if n.Hand != Left || n.Stem != StemDown {
				t.Errorf("%s: hand=%v stem=%v, want left/down", n.ID, n.Hand, n.Stem)
			}
		default:
			if n.Hand != Right || n.Stem != StemUp {
				t.Errorf("%s: hand=%v stem=%v, want right/up", n.ID, n.Hand, n.Stem)
			}
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Frequency = 1
	if At(0).Frequency != 196.00 {
		t.Errorf("table mutated through All(): G3 = %v", At(0).Frequency)
	}
}

func TestLookup(t *testing.T) {
	n, err := Lookup("C4")
	if err != nil {
		t.Fatalf("Lookup(C4): %v", err)
	}
	if n.Frequency != 261.63 {
		t.Errorf("C4 frequency = %v, want 261.63", n.Frequency)
	}

	if _, err := Lookup("C9"); !errors.Is(err, ErrUnknownNote) {
		t.Errorf("Lookup(C9) err = %v, want ErrUnknownNote", err)
	}
	if Index("nope") != -1 {
		t.Error("Index of unknown ID should be -1")
	}
}

func TestRandomCoversTable(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		seen[Random(rng).ID] = true
	}
	if len(seen) != Count {
		t.Errorf("Random visited %d notes in 500 draws, want %d", len(seen), Count)
	}
}
