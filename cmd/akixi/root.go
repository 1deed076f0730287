package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/internal/logging"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// app carries state shared by all commands of one invocation.
type app struct {
	output   string
	logLevel string

	cfg        *config.Config
	logCleanup func() error
}

// NewRootCmd creates the root command for akixi.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "akixi",
		Short: "Command-line client for Akixi call reports",
		Long: `akixi logs in to an Akixi call-reporting service, lists the reports
available to the user and executes them.

Credentials and connection settings come from the environment:
  AKIXI_HOST       tenant name, e.g. "acme" for acme.akixi.com
  AKIXI_USERNAME   login user
  AKIXI_PASSWORD   login password
  AKIXI_LOCALE     en_GB (default) or en_US
  AKIXI_BASE_URL   full API base URL, overrides AKIXI_HOST`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", formatTable, "Output format: table, json or yaml")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (default: LOG_LEVEL or info)")

	cmd.AddCommand(newReportsCmd(a))
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newTypesCmd(a))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	a := &app{}
	if err := a.execute(context.Background(), newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and closes the log file afterwards, also when the
// command fails.
func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}

	a.cfg = config.Load()
	logCfg := logging.FromConfig(a.cfg)
	if a.logLevel != "" {
		logCfg.Level = a.logLevel
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logCleanup = cleanup
	return nil
}

func (a *app) teardown() error {
	if a.logCleanup == nil {
		return nil
	}
	err := a.logCleanup()
	a.logCleanup = nil
	return err
}

// withSession logs in, runs fn and logs out again whatever fn returns.
func (a *app) withSession(ctx context.Context, fn func(*akixi.Session) error) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	s, err := akixi.Login(ctx, a.cfg.Host, a.cfg.Username, a.cfg.Password, a.cfg.SessionOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		ok, err := s.Logout(context.WithoutCancel(ctx))
		switch {
		case err != nil:
			slog.Warn("logout failed", slog.String("error", err.Error()))
		case !ok:
			slog.Warn("logout not acknowledged by server")
		}
	}()

	return fn(s)
}
