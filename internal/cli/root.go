// Package cli is the command-line front end for the audit service.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appaudit "github.com/bryanwahyu/growthaudit/internal/application/audit"
	"github.com/bryanwahyu/growthaudit/internal/bootstrap"
	"github.com/bryanwahyu/growthaudit/internal/config"
	"github.com/bryanwahyu/growthaudit/internal/logging"
)

// app is what every subcommand shares once the root pre-run has finished.
type app struct {
	cfgFile  string
	logLevel string
	session  string

	cfg   *config.Config
	store *bootstrap.Store
	svc   *appaudit.Service
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "audit",
		Short: "Social media growth audit from your terminal.",
		Long: `audit scores a social media account handle or link, lists three problems,
three fixes and a verdict, and keeps a short history per session.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVarP(&a.logLevel, "loglevel", "l", "", "Set log level. Available: debug, info, warn, error, fatal")
	root.PersistentFlags().StringVarP(&a.session, "session", "s", "cli", "Session whose history and flags are used")

	root.AddCommand(
		newAnalyzeCmd(a),
		newHistoryCmd(a),
		newUnlockCmd(a),
		newConsentCmd(a),
		newSessionCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	path := a.cfgFile
	if path == "" {
		path = "config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}
	if err := logging.SetFormat(cfg.Log.Format); err != nil {
		return err
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	svc, err := bootstrap.NewService(ctx, cfg, store)
	if err != nil {
		store.Close()
		return err
	}
	a.cfg, a.store, a.svc = cfg, store, svc
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
