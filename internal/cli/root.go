package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/melodymagic/internal/audio"
	"github.com/satindergrewal/melodymagic/internal/config"
	"github.com/satindergrewal/melodymagic/internal/stream"
	"github.com/satindergrewal/melodymagic/internal/synth"
)

// NewRootCommand creates the melody command. Without a subcommand it opens
// the interactive keyboard.
func NewRootCommand(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "melody",
		Short: "melodymagic - play and learn seven piano notes",
		Long: `An interactive seven-key piano for the terminal.

Press a s d f g h j (or 1-7) to play G3 through F4. Tab switches between
learn mode and a note-guessing game.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, cfg)
		},
	}

	cmd.PersistentFlags().BoolVar(&cfg.HammerNoise, "noise", cfg.HammerNoise, "layer a hammer noise burst at note onset")
	cmd.PersistentFlags().Float64Var(&cfg.NoteDuration, "duration", cfg.NoteDuration, "note length in seconds")
	cmd.PersistentFlags().Float64Var(&cfg.Velocity, "velocity", cfg.Velocity, "note velocity, clamped to 0.15-0.9")

	cmd.AddCommand(NewPlayCommand(&cfg))
	cmd.AddCommand(NewNotesCommand())

	return cmd
}

// app is the audio stack shared by the commands.
type app struct {
	engine *audio.Engine
	synth  *synth.Synthesizer
	meter  *stream.Meter
}

// newApp wires the engine, synthesizer and level meter. Background work
// stops when ctx is cancelled.
func newApp(ctx context.Context, cfg config.Config) *app {
	engine := audio.NewEngine(audio.Options{
		SampleRate: cfg.SampleRate,
		BufferSize: cfg.BufferSize,
		Volume:     cfg.Volume,
		MaxVoices:  cfg.MaxVoices,
	})
	return wire(ctx, engine, cfg)
}

func wire(ctx context.Context, engine *audio.Engine, cfg config.Config) *app {
	s := synth.New(engine, synth.Options{HammerNoise: cfg.HammerNoise})

	// Broadcaster: fan-out mixed blocks to the monitors
	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, engine.Blocks())

	meter := stream.NewMeter(0)
	go meter.Run(ctx, broadcaster.Subscribe(8))

	return &app{engine: engine, synth: s, meter: meter}
}
