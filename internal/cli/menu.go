package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// Ledger is what the menu needs from the expense service.
type Ledger interface {
	AddExpense(ctx context.Context, amount float64, category string) (core.Expense, error)
	Total(ctx context.Context) (float64, error)
	ByCategory(ctx context.Context, cat string) ([]core.Expense, error)
}

const menuText = `1. Add expense
2. View total
3. View by category
4. Exit
`

// Menu is the interactive loop over stdin/stdout.
type Menu struct {
	ledger Ledger
	in     *bufio.Scanner
	out    io.Writer
	logger *applog.Logger
}

func NewMenu(ledger Ledger, in io.Reader, out io.Writer, logger *applog.Logger) *Menu {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Menu{
		ledger: ledger,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.WithComponent(applog.ComponentCLI),
	}
}

// Run shows the menu until the user exits or input ends. Bad input is
// reported and the menu shown again; ledger errors end the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Enter choice: ")
		if !ok {
			return m.in.Err()
		}

		var err error
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			err = m.add(ctx)
		case "2":
			err = m.total(ctx)
		case "3":
			err = m.byCategory(ctx)
		case "4":
			return nil
		default:
			fmt.Fprintf(m.out, "Invalid choice %q, please enter 1-4.\n", choice)
			continue
		}

		if errors.Is(err, io.EOF) {
			return m.in.Err()
		}
		if err != nil {
			m.logger.ErrorContext(ctx, "Menu action failed", applog.FieldOperation, choice, applog.FieldError, err)
			return err
		}
	}
}

func (m *Menu) add(ctx context.Context) error {
	raw, ok := m.prompt("Amount: ")
	if !ok {
		return io.EOF
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		fmt.Fprintf(m.out, "Invalid amount %q: enter a positive number such as 12.50\n", raw)
		return nil
	}
	category, ok := m.prompt("Category: ")
	if !ok {
		return io.EOF
	}
	if _, err := m.ledger.AddExpense(ctx, amount, category); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Expense added!")
	return nil
}

func (m *Menu) total(ctx context.Context) error {
	total, err := m.ledger.Total(ctx)
	if err != nil {
		return err
	}
	PrintTotal(m.out, total)
	return nil
}

func (m *Menu) byCategory(ctx context.Context) error {
	category, ok := m.prompt("Category: ")
	if !ok {
		return io.EOF
	}
	expenses, err := m.ledger.ByCategory(ctx, category)
	if err != nil {
		return err
	}
	PrintExpenses(m.out, expenses)
	return nil
}

// prompt writes label and reads one line. Categories are kept verbatim
// apart from the line ending.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	line := strings.TrimSuffix(m.in.Text(), "\r")
	return line, true
}
