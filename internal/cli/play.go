package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/melodymagic/internal/config"
	"github.com/satindergrewal/melodymagic/internal/notes"
	"github.com/satindergrewal/melodymagic/internal/synth"
)

// tail covers the partial stop offset past the note duration.
const tail = 100 * time.Millisecond

// NewPlayCommand creates the play command.
func NewPlayCommand(cfg *config.Config) *cobra.Command {
	var gap time.Duration

	cmd := &cobra.Command{
		Use:   "play NOTE...",
		Short: "Play notes by name (G3-F4) or frequency in Hz",
		Example: `  melody play C4 E4 G3
  melody play --gap 250ms 440 C4`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := parseRequests(args, *cfg)
			if err != nil {
				return err
			}
			a := newApp(cmd.Context(), *cfg)
			return playSequence(cmd.Context(), a, reqs, gap, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&gap, "gap", 400*time.Millisecond, "time between note onsets")

	return cmd
}

// parseRequests turns note IDs or raw frequencies into tone requests.
func parseRequests(args []string, cfg config.Config) ([]synth.Request, error) {
	reqs := make([]synth.Request, 0, len(args))
	for _, arg := range args {
		freq, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			n, lerr := notes.Lookup(arg)
			if lerr != nil {
				return nil, lerr
			}
			freq = n.Frequency
		}
		req := synth.Request{Frequency: freq, Duration: cfg.NoteDuration, Velocity: cfg.Velocity}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("note %q: %w", arg, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// playSequence plays reqs gap apart and returns once the last one has
// rung out.
func playSequence(ctx context.Context, a *app, reqs []synth.Request, gap time.Duration, w io.Writer) error {
	var last float64
	for i, req := range reqs {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(gap):
			}
		}
		if err := a.synth.Play(ctx, req); err != nil {
			return err
		}
		fmt.Fprintf(w, "%.2f Hz\n", req.Frequency)
		last = req.Duration
	}

	deadline := time.After(time.Duration(last*float64(time.Second)) + tail)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if a.engine.Voices() == 0 {
				return nil
			}
		case <-deadline:
			if n := a.engine.Voices(); n > 0 {
				log.Printf("Stopped with %d voices still sounding", n)
			}
			return nil
		}
	}
}
