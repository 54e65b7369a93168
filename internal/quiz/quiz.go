package quiz

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/satindergrewal/melodymagic/internal/notes"
)

// Mode is the game mode.
type Mode int

const (
	Learn Mode = iota // every note is shown and labelled
	Play              // guess the single target note
)

func (m Mode) String() string {
	if m == Play {
		return "play"
	}
	return "learn"
}

const (
	PointsPerHit = 10
	NextDelay    = time.Second // pause before a new target after a hit
)

// Outcome is the result of one answer.
type Outcome int

const (
	NoTarget Outcome = iota // learn mode, or waiting for the next target
	Correct
	Wrong
)

// Game holds the quiz state. Safe for concurrent use.
type Game struct {
	rng *rand.Rand

	mu       sync.Mutex
	mode     Mode
	target   string
	pending  bool // a hit was scored; waiting for Advance
	score    int
	streak   int
	best     int
	attempts int
	hits     int
}

// New creates a game in learn mode. A nil rng uses the global source.
func New(rng *rand.Rand) *Game {
	return &Game{rng: rng}
}

// Mode returns the current mode.
func (g *Game) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// SetMode switches modes. Entering play resets score and streak and picks a
// target; entering learn clears the target.
func (g *Game) SetMode(m Mode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = m
	g.pending = false
	if m == Play {
		g.score, g.streak = 0, 0
		g.target = notes.Random(g.rng).ID
		return
	}
	g.target = ""
}

// Toggle flips between learn and play and returns the new mode.
func (g *Game) Toggle() Mode {
	next := Play
	if g.Mode() == Play {
		next = Learn
	}
	g.SetMode(next)
	return next
}

// Target returns the note to guess, or "" outside play mode.
func (g *Game) Target() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Answer scores a played note against the target.
func (g *Game) Answer(id string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != Play || g.target == "" || g.pending {
		return NoTarget
	}
	g.attempts++
	if id != g.target {
		g.score, g.streak = 0, 0
		return Wrong
	}
	g.hits++
	g.score += PointsPerHit
	g.streak++
	if g.streak > g.best {
		g.best = g.streak
	}
	g.pending = true
	return Correct
}

// Advance picks the next target after a hit.
func (g *Game) Advance() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != Play {
		return
	}
	g.pending = false
	g.target = notes.Random(g.rng).ID
}

// Stats is a snapshot of the scoreboard.
type Stats struct {
	Score      int
	Streak     int
	BestStreak int
	Attempts   int
	Hits       int
}

// Stats returns the current scoreboard.
func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{
		Score:      g.score,
		Streak:     g.streak,
		BestStreak: g.best,
		Attempts:   g.attempts,
		Hits:       g.hits,
	}
}
