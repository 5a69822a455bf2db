package services

import (
	"context"
	"fmt"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// ExpenseStore is the ledger the service reads from and appends to.
type ExpenseStore interface {
	Add(ctx context.Context, amount float64, category string) (core.Expense, error)
	Total(ctx context.Context) (float64, error)
	ByCategory(ctx context.Context, cat string) ([]core.Expense, error)
	Summary(ctx context.Context) ([]core.CategoryTotal, error)
}

// EventPublisher announces new expenses to other systems.
type EventPublisher interface {
	PublishExpenseAdded(ctx context.Context, e core.Expense) error
	Close() error
}

// ExpenseService orchestrates expense operations across the ledger and AMQP
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	logger    *applog.Logger
}

// NewExpenseService builds a service. publisher may be nil.
func NewExpenseService(store ExpenseStore, publisher EventPublisher, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentExpense),
	}
}

// AddExpense saves an expense to the ledger and publishes an event
func (s *ExpenseService) AddExpense(ctx context.Context, amount float64, category string) (core.Expense, error) {
	// The ledger is the source of truth; write it first.
	e, err := s.store.Add(ctx, amount, category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.publishAdded(ctx, e); err != nil {
		s.log(ctx).WarnContext(ctx, "Failed to publish expense added message",
			applog.NewFields().
				WithOperation(applog.OpPublish).
				WithExpense(e.Amount, e.Category, e.Date.String()).
				WithError(err).
				ToSlice()...)
		// Don't fail the add - the expense is saved locally
	}

	return e, nil
}

// log prefers the logger carried by ctx.
func (s *ExpenseService) log(ctx context.Context) *applog.Logger {
	return applog.FromContextOr(ctx, s.logger).WithComponent(applog.ComponentExpense)
}

func (s *ExpenseService) Total(ctx context.Context) (float64, error) {
	return s.store.Total(ctx)
}

func (s *ExpenseService) ByCategory(ctx context.Context, cat string) ([]core.Expense, error) {
	return s.store.ByCategory(ctx, cat)
}

func (s *ExpenseService) Summary(ctx context.Context) ([]core.CategoryTotal, error) {
	return s.store.Summary(ctx)
}

func (s *ExpenseService) publishAdded(ctx context.Context, e core.Expense) error {
	if s.publisher == nil {
		s.log(ctx).DebugContext(ctx, "No publisher configured, skipping expense added message")
		return nil
	}
	return s.publisher.PublishExpenseAdded(ctx, e)
}

// Close releases the publisher connection
func (s *ExpenseService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
