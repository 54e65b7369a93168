package quiz

import (
	"math/rand/v2"
	"testing"

	"github.com/satindergrewal/melodymagic/internal/notes"
)

func newGame() *Game {
	return New(rand.New(rand.NewPCG(7, 11)))
}

func wrongNote(target string) string {
	for _, n := range notes.All() {
		if n.ID != target {
			return n.ID
		}
	}
	return ""
}

func TestStartsInLearnMode(t *testing.T) {
	g := newGame()
	if g.Mode() != Learn {
		t.Errorf("Mode = %v, want learn", g.Mode())
	}
	if g.Target() != "" {
		t.Errorf("Target = %q, want empty", g.Target())
	}
	if got := g.Answer("C4"); got != NoTarget {
		t.Errorf("Answer in learn mode = %v, want NoTarget", got)
	}
	if g.Stats().Attempts != 0 {
		t.Error("learn-mode answer counted as attempt")
	}
}

func TestPlayModePicksTarget(t *testing.T) {
	g := newGame()
	g.SetMode(Play)
	if notes.Index(g.Target()) < 0 {
		t.Errorf("Target %q not in note table", g.Target())
	}
}

func TestCorrectAnswerScores(t *testing.T) {
	g := newGame()
	g.SetMode(Play)

	for i := 1; i <= 3; i++ {
		if got := g.Answer(g.Target()); got != Correct {
			t.Fatalf("round %d: Answer = %v, want Correct", i, got)
		}
		st := g.Stats()
		if st.Score != i*PointsPerHit || st.Streak != i {
			t.Errorf("round %d: score=%d streak=%d", i, st.Score, st.Streak)
		}
		g.Advance()
	}
	if g.Stats().BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3", g.Stats().BestStreak)
	}
}

func TestAnswersIgnoredUntilAdvance(t *testing.T) {
	g := newGame()
	g.SetMode(Play)
	target := g.Target()
	g.Answer(target)
	if got := g.Answer(target); got != NoTarget {
		t.Errorf("second answer before Advance = %v, want NoTarget", got)
	}
	if g.Stats().Score != PointsPerHit {
		t.Errorf("Score = %d, want %d", g.Stats().Score, PointsPerHit)
	}
}

func TestWrongAnswerResets(t *testing.T) {
	g := newGame()
	g.SetMode(Play)
	g.Answer(g.Target())
	g.Advance()
	g.Answer(g.Target())
	g.Advance()

	target := g.Target()
	if got := g.Answer(wrongNote(target)); got != Wrong {
		t.Fatalf("Answer = %v, want Wrong", got)
	}
	st := g.Stats()
	if st.Score != 0 || st.Streak != 0 {
		t.Errorf("after wrong: score=%d streak=%d, want 0/0", st.Score, st.Streak)
	}
	if st.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2 kept after reset", st.BestStreak)
	}
	if g.Target() != target {
		t.Error("target changed after wrong answer")
	}
	if st.Attempts != 3 || st.Hits != 2 {
		t.Errorf("attempts=%d hits=%d, want 3/2", st.Attempts, st.Hits)
	}
}

func TestSwitchingModes(t *testing.T) {
	g := newGame()
	g.SetMode(Play)
	g.Answer(g.Target())

	if got := g.Toggle(); got != Learn {
		t.Fatalf("Toggle = %v, want learn", got)
	}
	if g.Target() != "" {
		t.Error("target kept in learn mode")
	}

	g.Toggle()
	st := g.Stats()
	if st.Score != 0 || st.Streak != 0 {
		t.Errorf("entering play: score=%d streak=%d, want 0/0", st.Score, st.Streak)
	}
	if g.Target() == "" {
		t.Error("no target after entering play")
	}
	if g.Answer(g.Target()) != Correct {
		t.Error("pending hit survived a mode switch")
	}
}

func TestAdvanceInLearnModeIsNoop(t *testing.T) {
	g := newGame()
	g.Advance()
	if g.Target() != "" {
		t.Errorf("Advance in learn mode set target %q", g.Target())
	}
}
