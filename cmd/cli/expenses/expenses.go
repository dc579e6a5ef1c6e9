package expenses

import (
	"encoding/json"
	"fmt"
	"net/url"
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
func InitExpenses(rootCmd *cobra.Command) {
	expensesCmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"exp"},
		Short:   "Record and manage expenses",
	}
	expensesCmd.AddCommand(addCmd(), listCmd(), getCmd(), updateCmd(), deleteCmd())
	rootCmd.AddCommand(expensesCmd)
}

type expenseFlags struct {
	amount      string
	description string
	category    string
	date        string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 12.50")
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().StringVar(&f.category, "category", "", "category label, e.g. Food")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
}

// body keeps the amount as a JSON number so no precision is lost on the way.
func (f *expenseFlags) body() (map[string]any, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", f.amount)
	}
	b := map[string]any{
		"amount":      json.Number(amount.String()),
		"description": f.description,
		"category":    f.category,
	}
	if f.date != "" {
		d, err := models.ParseDate(f.date)
		if err != nil {
			return nil, err
		}
		b["date"] = d
	}
	return b, nil
}

// ==========================
// Add Expense
// ==========================
func addCmd() *cobra.Command {
	var f expenseFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := f.body()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var e models.Expense
			raw, err := c.Do(cmd.Context(), "POST", "/api/expenses", body, &e)
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			renderExpenses(cmd, []models.Expense{e})
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// ==========================
// List Expenses
// ==========================
func listCmd() *cobra.Command {
	var page, size int
	var sort string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your expenses, one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("size", strconv.Itoa(size))
			if sort != "" {
				q.Set("sort", sort)
			}

			var p models.ExpensePage
			raw, err := c.Do(cmd.Context(), "GET", "/api/expenses?"+q.Encode(), nil, &p)
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			if len(p.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses found.")
				return nil
			}
			renderExpenses(cmd, p.Items)
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d expenses)\n", p.Page+1, p.TotalPages, p.TotalItems)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", models.DefaultPageSize, "page size")
	cmd.Flags().StringVar(&sort, "sort", "", "sort as field,dir, e.g. amount,asc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// Get Expense
// ==========================
func getCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var e models.Expense
			raw, err := c.Do(cmd.Context(), "GET", "/api/expenses/"+id, nil, &e)
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			renderExpenses(cmd, []models.Expense{e})
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// Update Expense
// ==========================
func updateCmd() *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			body, err := f.body()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var e models.Expense
			if _, err := c.Do(cmd.Context(), "PUT", "/api/expenses/"+id, body, &e); err != nil {
				return err
			}
			renderExpenses(cmd, []models.Expense{e})
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// ==========================
// Delete Expense
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), "DELETE", "/api/expenses/"+id, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense %s\n", id)
			return nil
		},
	}
}

func parseID(s string) (string, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid expense id %q", s)
	}
	return strconv.FormatInt(id, 10), nil
}

func renderExpenses(cmd *cobra.Command, items []models.Expense) {
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		rows = append(rows, []any{e.ID, e.Date, e.Category, e.Amount.StringFixed(2), e.Description})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Date", "Category", "Amount", "Description"}, rows, nil)
}
