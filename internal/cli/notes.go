package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/satindergrewal/melodymagic/internal/notes"
)

// NewNotesCommand creates the notes command.
func NewNotesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "List the playable notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeNotes(cmd.OutOrStdout())
		},
	}
}

func writeNotes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NOTE\tKEY\tHZ\tHAND\tSTEM\tCOLOR")
	for i, n := range notes.All() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			n.ID, i+1, humanize.FtoaWithDigits(n.Frequency, 2), n.Hand, n.Stem, n.Color)
	}
	return tw.Flush()
}
