package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leengari/secindex/internal/storage/snapshot"
)

var inspectLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the spec and entries of a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.ReadFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "spec:     %s\n", snap.Spec)
		fmt.Fprintf(out, "created:  %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(out, "entries:  %d\n\n", len(snap.Entries))

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "id\tkey")
		fmt.Fprintln(tw, "---\t---")
		for i, e := range snap.Entries {
			if inspectLimit > 0 && i >= inspectLimit {
				fmt.Fprintf(tw, "...\t%d more\n", len(snap.Entries)-i)
				break
			}
			fmt.Fprintf(tw, "%s\t%s\n", strings.ReplaceAll(e.ID, "\t", " "), e.Key)
		}
		return tw.Flush()
	},
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 0, "print at most n entries (0 prints all)")
}
