package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tilde-nya/akixi/internal/catalog"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// newReportsCmd creates the reports command.
func newReportsCmd(a *app) *cobra.Command {
	var (
		types    []string
		licensed bool
		binned   bool
		search   string
	)

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List the reports available to the user",
		Long: `List the reports available to the user, in server order.

Examples:
  # Every report
  akixi reports

  # Licensed daily reports in the Sales folder
  akixi reports --type "Calls By Day" --licensed --search sales

  # Reports of an unlisted type code, as YAML
  akixi reports --type 4242 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := catalog.ParseTypes(types)
			if err != nil {
				return err
			}
			filter := catalog.Filter{Types: parsed, Text: search}
			if cmd.Flags().Changed("licensed") {
				filter.Licensed = &licensed
			}
			if cmd.Flags().Changed("binned") {
				filter.Binned = &binned
			}

			return a.withSession(cmd.Context(), func(s *akixi.Session) error {
				found := catalog.New(s.ListReports()).Find(filter)

				summaries := make([]akixi.ReportSummary, len(found))
				for i, r := range found {
					summaries[i] = r.Summary()
				}
				return render(cmd.OutOrStdout(), a.output, summaries, func(t *tablewriter.Table) error {
					t.Header("ID", "Type", "Description", "Licensed", "Binned")
					for _, r := range summaries {
						if err := t.Append(r.ID, r.TypeName, r.Description,
							strconv.FormatBool(r.IsLicensed), strconv.FormatBool(r.IsBinned)); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Only these report types, by name or code (repeatable)")
	cmd.Flags().BoolVar(&licensed, "licensed", false, "Only licensed reports (--licensed=false for unlicensed)")
	cmd.Flags().BoolVar(&binned, "binned", false, "Only binned reports (--binned=false for active)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Words that must all appear in the description")

	return cmd
}

// newTypesCmd creates the types command.
func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known report type codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type typeRow struct {
				Code int    `json:"code"`
				Name string `json:"name"`
			}
			known := akixi.ReportTypes()
			rows := make([]typeRow, len(known))
			for i, t := range known {
				rows[i] = typeRow{Code: int(t), Name: t.String()}
			}

			return render(cmd.OutOrStdout(), a.output, rows, func(t *tablewriter.Table) error {
				t.Header("Code", "Name")
				for _, r := range rows {
					if err := t.Append(strconv.Itoa(r.Code), r.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
