package report

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/crucial707/expense-tracker/cmd/cli/client"
	"github.com/crucial707/expense-tracker/cmd/cli/output"
	"github.com/crucial707/expense-tracker/internal/models"
)

// ==========================
// CLI Command Init
// ==========================
func InitReport(rootCmd *cobra.Command) {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Totals and category breakdowns",
	}
	reportCmd.AddCommand(totalCmd(), byCategoryCmd(), monthlyCmd())
	rootCmd.AddCommand(reportCmd)
}

type rangeFlags struct {
	start, end string
	asJSON     bool
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day, YYYY-MM-DD (inclusive)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print raw JSON")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *rangeFlags) query() (string, error) {
	if _, err := models.ParseDate(f.start); err != nil {
		return "", fmt.Errorf("--start: %w", err)
	}
	if _, err := models.ParseDate(f.end); err != nil {
		return "", fmt.Errorf("--end: %w", err)
	}
	q := url.Values{}
	q.Set("startDate", f.start)
	q.Set("endDate", f.end)
	return q.Encode(), nil
}

// ==========================
// Total
// ==========================
func totalCmd() *cobra.Command {
	var f rangeFlags
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Sum of expenses between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var resp struct {
				Total decimal.Decimal `json:"total"`
			}
			raw, err := c.Do(cmd.Context(), "GET", "/api/expenses/total?"+q, nil, &resp)
			if err != nil {
				return err
			}
			if f.asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total %s to %s: %s\n", f.start, f.end, resp.Total.StringFixed(2))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// ==========================
// By Category
// ==========================
func byCategoryCmd() *cobra.Command {
	var f rangeFlags
	cmd := &cobra.Command{
		Use:   "by-category",
		Short: "Per-category sums between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var groups map[string]decimal.Decimal
			raw, err := c.Do(cmd.Context(), "GET", "/api/expenses/by-category?"+q, nil, &groups)
			if err != nil {
				return err
			}
			if f.asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			renderCategories(cmd, groups)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// ==========================
// Monthly
// ==========================
func monthlyCmd() *cobra.Command {
	var year, month int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Report for one calendar month (default current)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			q := url.Values{}
			if year != 0 {
				q.Set("year", strconv.Itoa(year))
			}
			if month != 0 {
				q.Set("month", strconv.Itoa(month))
			}
			path := "/api/expenses/report/monthly"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var r models.MonthlyReport
			raw, err := c.Do(cmd.Context(), "GET", path, nil, &r)
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%04d-%02d (%s to %s)\n", r.Year, r.Month, r.StartDate, r.EndDate)
			renderCategories(cmd, r.ByCategory)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year, e.g. 2025")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// renderCategories prints categories alphabetically with the grand total as footer.
func renderCategories(cmd *cobra.Command, groups map[string]decimal.Decimal) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	sum := decimal.Zero
	rows := make([][]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, []any{name, groups[name].StringFixed(2)})
		sum = sum.Add(groups[name])
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"Category", "Total"}, rows, []any{"TOTAL", sum.StringFixed(2)})
}
