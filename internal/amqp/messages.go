package amqp

import (
	"encoding/json"
	"time"

	"expenses/internal/core"
)

// ExpenseAddedMessage is published after a record has been written to the ledger.
type ExpenseAddedMessage struct {
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      core.Date `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage creates a message for e stamped with the current time.
func NewExpenseAddedMessage(e core.Expense) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON decodes a message body.
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
