package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/satindergrewal/melodymagic/internal/config"
	"github.com/satindergrewal/melodymagic/internal/quiz"
	"github.com/satindergrewal/melodymagic/internal/tui"
)

func runTUI(cmd *cobra.Command, cfg config.Config) error {
	// The terminal belongs to the TUI; log to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "melody")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx := cmd.Context()
	a := newApp(ctx, cfg)
	game := quiz.New(nil)
	model := tui.NewModel(a.synth, a.engine, a.meter, game, tui.Options{
		Duration: cfg.NoteDuration,
		Velocity: cfg.Velocity,
	})

	log.Println("melody starting up...")
	start := time.Now()
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	a.synth.Wait()

	played := 0
	if m, ok := final.(tui.Model); ok {
		played = m.Played()
	}
	writeSummary(cmd.OutOrStdout(), time.Since(start), played, game.Stats())
	return nil
}

// writeSummary prints the end-of-session line and, if the game was played,
// the quiz result.
func writeSummary(w io.Writer, elapsed time.Duration, played int, st quiz.Stats) {
	fmt.Fprintf(w, "Played %s notes in %s\n",
		humanize.Comma(int64(played)), durafmt.Parse(elapsed.Round(time.Second)).LimitFirstN(2))
	if st.Attempts == 0 {
		return
	}
	pct := 100 * float64(st.Hits) / float64(st.Attempts)
	fmt.Fprintf(w, "Quiz: %s of %s correct (%s%%), best streak %d\n",
		humanize.Comma(int64(st.Hits)), humanize.Comma(int64(st.Attempts)),
		humanize.FtoaWithDigits(pct, 1), st.BestStreak)
}
