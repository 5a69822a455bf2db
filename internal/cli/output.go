package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"expenses/internal/core"
)

func PrintTotal(w io.Writer, total float64) {
	fmt.Fprintf(w, "Total: %s\n", core.FormatAmount(total))
}

// PrintExpenses lists records one per line as date, category, amount.
func PrintExpenses(w io.Writer, expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Date, e.Category, core.FormatAmount(e.Amount))
	}
	tw.Flush()
}

func PrintSummary(w io.Writer, totals []core.CategoryTotal) {
	if len(totals) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	var sum float64
	for _, c := range totals {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Name, core.FormatAmount(c.Amount))
		sum += c.Amount
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", "Total", core.FormatAmount(sum))
	tw.Flush()
}
