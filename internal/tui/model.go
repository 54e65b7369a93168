package tui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/satindergrewal/melodymagic/internal/notes"
	"github.com/satindergrewal/melodymagic/internal/quiz"
	"github.com/satindergrewal/melodymagic/internal/synth"
)

const (
	litFor    = 500 * time.Millisecond
	meterTick = 50 * time.Millisecond
)

// keyBindings maps home-row keys to notes in table order.
var keyBindings = [notes.Count]string{"a", "s", "d", "f", "g", "h", "j"}

// Player starts tones. *synth.Synthesizer satisfies it.
type Player interface {
	Trigger(req synth.Request) error
}

// Muter silences the output until the next tone. *audio.Engine satisfies it.
type Muter interface {
	Suspend() error
}

// LevelSource reports the output level in [0, 1]. *stream.Meter satisfies it.
type LevelSource interface {
	Level() float64
}

// Options tunes the model. Zero values take defaults.
type Options struct {
	Duration float64    // seconds per tone
	Velocity float64
	KeyRate  rate.Limit // max note keys per second, held keys included
	KeyBurst int
}

type Model struct {
	player  Player
	mute    Muter
	level   LevelSource
	game    *quiz.Game
	limiter *rate.Limiter

	duration float64
	velocity float64

	cursor   int
	lit      [notes.Count]int // generation of the last press, 0 when dark
	gen      int
	meter    float64
	feedback string
	muted    bool
	played   int
	quitting bool
}

type releaseMsg struct {
	key, gen int
}

type advanceMsg struct{}

type levelMsg struct{}

// NewModel creates the model. mute and level may be nil.
func NewModel(player Player, mute Muter, level LevelSource, game *quiz.Game, opts Options) Model {
	if opts.Duration <= 0 {
		opts.Duration = synth.DefaultDuration
	}
	if opts.Velocity == 0 {
		opts.Velocity = synth.DefaultVelocity
	}
	if opts.KeyRate == 0 {
		opts.KeyRate = rate.Every(80 * time.Millisecond)
	}
	if opts.KeyBurst <= 0 {
		opts.KeyBurst = 2
	}
	return Model{
		player:   player,
		mute:     mute,
		level:    level,
		game:     game,
		limiter:  rate.NewLimiter(opts.KeyRate, opts.KeyBurst),
		duration: opts.Duration,
		velocity: opts.Velocity,
		cursor:   notes.Index("C4"),
	}
}

// Played returns how many notes were played this session.
func (m Model) Played() int {
	return m.played
}

func tickLevel() tea.Cmd {
	return tea.Tick(meterTick, func(time.Time) tea.Msg { return levelMsg{} })
}

func (m Model) Init() tea.Cmd {
	return tickLevel()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			mode := m.game.Toggle()
			m.feedback = ""
			log.Printf("Mode: %s", mode)

		case "m":
			if m.mute != nil {
				if err := m.mute.Suspend(); err != nil {
					log.Printf("Mute failed: %v", err)
				} else {
					m.muted = true
				}
			}

		case "left":
			if m.cursor > 0 {
				m.cursor--
			}

		case "right":
			if m.cursor < notes.Count-1 {
				m.cursor++
			}

		case "enter", " ":
			return m.press(m.cursor)

		case "1", "2", "3", "4", "5", "6", "7":
			return m.press(int(key[0] - '1'))

		default:
			for i, b := range keyBindings {
				if key == b {
					return m.press(i)
				}
			}
		}

	case releaseMsg:
		if m.lit[msg.key] == msg.gen {
			m.lit[msg.key] = 0
		}

	case advanceMsg:
		m.game.Advance()
		m.feedback = ""

	case levelMsg:
		if m.level != nil {
			m.meter = m.level.Level()
		}
		return m, tickLevel()
	}

	return m, nil
}

// press plays note i and scores it in play mode.
func (m Model) press(i int) (tea.Model, tea.Cmd) {
	if !m.limiter.Allow() {
		return m, nil
	}
	n := notes.At(i)
	m.cursor = i

	req := synth.Request{Frequency: n.Frequency, Duration: m.duration, Velocity: m.velocity}
	if err := m.player.Trigger(req); err != nil {
		log.Printf("Play %s failed: %v", n.ID, err)
		return m, nil
	}
	m.played++
	m.muted = false

	m.gen++
	m.lit[i] = m.gen
	gen := m.gen
	cmds := []tea.Cmd{tea.Tick(litFor, func(time.Time) tea.Msg { return releaseMsg{key: i, gen: gen} })}

	switch m.game.Answer(n.ID) {
	case quiz.Correct:
		m.feedback = "Correct! " + n.ID
		cmds = append(cmds, tea.Tick(quiz.NextDelay, func(time.Time) tea.Msg { return advanceMsg{} }))
	case quiz.Wrong:
		m.feedback = "Not quite, try again"
	}
	return m, tea.Batch(cmds...)
}
