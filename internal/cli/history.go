package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or clear past audits",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored audits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.svc.History(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No audits yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tINPUT\tPLATFORM\tSCORE\tWHEN")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.Input, it.Platform, it.Result.GrowthScore, humanize.Time(it.Timestamp))
			}
			return w.Flush()
		},
	}
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored audit without running it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.svc.Replay(cmd.Context(), a.session, args[0])
			if err != nil {
				return localize(err, domain.DefaultLanguage)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), %s\n\n", it.Input, it.Platform, humanize.Time(it.Timestamp))
			printResult(out, it.Result)
			return nil
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored audit for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.ClearHistory(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
	cmd.AddCommand(list, show, clearCmd)
	// "audit history" alone lists
	cmd.RunE = list.RunE
	return cmd
}
