package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Inspect circulation",
}

var booksOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List books past their due date with the fee owed today",
	Args:  cobra.NoArgs,
	RunE:  runBooksOverdue,
}

func init() {
	booksCmd.AddCommand(booksOverdueCmd)
	rootCmd.AddCommand(booksCmd)
}

func runBooksOverdue(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.close()

	rows, err := d.reports.OverdueUnchecked(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		color.Green("No overdue loans.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ISBN\tTITLE\tBORROWER\tDUE\tDAYS\tOWED")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ISBN, r.Title, r.BorrowerEmail, r.DueDate.Format("2006-01-02"),
			r.OverdueDays, color.RedString(r.FeeOwed))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	color.Yellow("%d overdue loan(s)", len(rows))
	return nil
}
