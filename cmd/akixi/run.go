package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tilde-nya/akixi/internal/preview"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// newRunCmd creates the run command.
func newRunCmd(a *app) *cobra.Command {
	var (
		expr    string
		compact bool
		dedupe  bool
	)

	cmd := &cobra.Command{
		Use:   "run <report-id>",
		Short: "Execute a report and print its result",
		Long: `Execute a report and print its JSON result.

Examples:
  # Whole result
  akixi run 1234

  # Agent names only, without repeats
  akixi run 1234 --jq '.Rows[].Name' --dedupe

  # Shortened result for a quick look
  akixi run 1234 --compact -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var engine *query.Engine
			if expr != "" {
				var err error
				engine, err = query.NewEngine(a.cfg.QueryCacheSize, a.cfg.QueryMaxResults)
				if err != nil {
					return err
				}
				if err := engine.Validate(expr); err != nil {
					return err
				}
			}

			return a.withSession(cmd.Context(), func(s *akixi.Session) error {
				r, err := s.GetReport(args[0])
				if err != nil {
					return err
				}
				result, err := r.Execute(cmd.Context())
				if err != nil {
					return err
				}

				var out any
				if engine != nil {
					qr, err := engine.Query(cmd.Context(), result, expr, query.Options{Deduplicate: dedupe})
					if err != nil {
						return err
					}
					for _, msg := range qr.Errors {
						fmt.Fprintln(cmd.ErrOrStderr(), "jq:", msg)
					}
					if qr.Truncated {
						slog.Warn("jq output truncated", slog.Int("max_results", a.cfg.QueryMaxResults))
					}
					out = qr.Values
				} else if err := result.Decode(&out); err != nil {
					return fmt.Errorf("decoding result: %w", err)
				}

				if compact {
					var stats preview.Stats
					out, stats = preview.Value(out, a.cfg.CompactOptions())
					if stats.Trimmed() {
						slog.Info("result compacted",
							slog.Int("dropped_items", stats.DroppedItems),
							slog.Int("truncated_texts", stats.TruncatedTexts),
						)
					}
				}

				return render(cmd.OutOrStdout(), a.output, out, nil)
			})
		},
	}

	cmd.Flags().StringVar(&expr, "jq", "", "jq expression applied to the result")
	cmd.Flags().BoolVar(&compact, "compact", false, "Trim long arrays and strings")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Drop repeated jq values")

	return cmd
}
