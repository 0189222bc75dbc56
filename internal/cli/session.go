package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	appaudit "github.com/bryanwahyu/growthaudit/internal/application/audit"
	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/i18n"
)

func newUnlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Mark the follow step as done so the analyzer unlocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Unlock(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Unlocked.")
			return nil
		},
	}
}

func newConsentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "consent",
		Short: "Record cookie consent for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.AcceptCookies(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consent recorded.")
			return nil
		},
	}
}

func newSessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the unlock and consent flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.svc.Session(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), a.session, st)
			return nil
		},
	}
}

func printSession(out io.Writer, session string, st appaudit.SessionState) {
	fmt.Fprintf(out, "Session:   %s\n", session)
	fmt.Fprintf(out, "Unlocked:  %t\n", st.Unlocked)
	fmt.Fprintf(out, "Consent:   %t\n", st.CookieAccepted)
	if !st.Unlocked {
		fmt.Fprintf(out, "Follow %s, then run `audit unlock`.\n", st.FollowURL)
	}
}

// localize swaps domain errors for the message a user should see.
func localize(err error, lang domain.Language) error {
	var ae *domain.AnalysisError
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return errors.New(i18n.Message(lang, i18n.EmptyInput))
	case errors.Is(err, domain.ErrLocked):
		return errors.New(i18n.Message(lang, i18n.Locked))
	case errors.Is(err, domain.ErrSuperseded):
		return errors.New(i18n.Message(lang, i18n.Busy))
	case errors.Is(err, domain.ErrHistoryNotFound):
		return errors.New(i18n.Message(lang, i18n.NotFound))
	case errors.As(err, &ae):
		return errors.New(i18n.Message(lang, i18n.ErrorMsg))
	}
	return err
}
