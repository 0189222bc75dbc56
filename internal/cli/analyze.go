package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appaudit "github.com/bryanwahyu/growthaudit/internal/application/audit"
	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		platform string
		lang     string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <handle or link>",
		Short: "Run a growth audit for an account",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			l := domain.ResolveLanguage(lang)

			command := appaudit.AnalyzeCommand{
				Session:  a.session,
				Input:    strings.Join(args, " "),
				Platform: domain.ParsePlatform(platform),
				Lang:     l,
			}
			if !asJSON {
				n := 0
				command.OnStep = func(step string) {
					n++
					fmt.Fprintf(out, "[%d/4] %s\n", n, step)
				}
			}

			res, err := a.svc.Analyze(cmd.Context(), command)
			if err != nil {
				return localize(err, l)
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(out)
			printResult(out, res.AnalysisResult)
			fmt.Fprintf(out, "\nSaved as %s\n", res.HistoryID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", string(domain.PlatformInstagram), "Platform: instagram, instagram_reels, tiktok, facebook")
	cmd.Flags().StringVar(&lang, "lang", "en", "Result language: en, ar, he")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResult(out io.Writer, r domain.AnalysisResult) {
	fmt.Fprintf(out, "Growth score: %d/100\n", r.GrowthScore)
	fmt.Fprintln(out, "\nProblems:")
	for i, p := range r.Problems {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p)
	}
	fmt.Fprintln(out, "\nSolutions:")
	for i, s := range r.Solutions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s)
	}
	fmt.Fprintf(out, "\nVerdict: %s\n", r.Verdict)
}
