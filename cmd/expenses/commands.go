package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"expenses/internal/cli"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

type app struct {
	ledgerFile string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer

	logger  *applog.Logger
	service *services.ExpenseService
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

// command builds the cobra tree. Errors are returned to the caller
// unprinted; the caller is expected to call close afterwards.
func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "expenses",
		Short:         "Track expenses in a local JSON ledger",
		Long:          "Track expenses in a local JSON ledger.\n\nRun without a command for the interactive menu.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			menu := cli.NewMenu(a.service, a.stdin, a.stdout, a.logger)
			return menu.Run(cmd.Context())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().StringVarP(&a.ledgerFile, "file", "f", "", "ledger file (overrides LEDGER_FILE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "add <amount> <category>",
			Short: "Add an expense dated today",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := core.ParseAmount(args[0])
				if err != nil {
					return fmt.Errorf("%w %q: enter a positive number such as 12.50", err, args[0])
				}
				if _, err := a.service.AddExpense(cmd.Context(), amount, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, "Expense added!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "total",
			Short: "Print the sum of all expenses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				total, err := a.service.Total(cmd.Context())
				if err != nil {
					return err
				}
				cli.PrintTotal(a.stdout, total)
				return nil
			},
		},
		&cobra.Command{
			Use:   "category <name>",
			Short: "List expenses in one category (exact match)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				expenses, err := a.service.ByCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cli.PrintExpenses(a.stdout, expenses)
				return nil
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Print totals per category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				totals, err := a.service.Summary(cmd.Context())
				if err != nil {
					return err
				}
				cli.PrintSummary(a.stdout, totals)
				return nil
			},
		},
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig(a.ledgerFile)
	if err != nil {
		return err
	}
	a.logger = cli.SetupLogger(cfg, a.stderr)
	cmd.SetContext(applog.NewContext(cmd.Context(), a.logger))
	a.service = cli.NewService(cmd.Context(), cfg, a.logger)
	return nil
}

func (a *app) close() {
	if a.service == nil {
		return
	}
	if err := a.service.Close(); err != nil {
		a.logger.Warn("Failed to close expense service", applog.FieldError, err)
	}
	a.service = nil
}

// reportError logs err through the configured logger. Errors raised before
// the logger exists, such as bad flags or configuration, are printed plainly.
func (a *app) reportError(err error) {
	if a.logger == nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}
	a.logger.Error("Command failed", applog.FieldError, err)
}
