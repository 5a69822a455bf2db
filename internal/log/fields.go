package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldCount     = "count"
	FieldExchange  = "exchange"
	FieldQueue     = "queue"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentExpense = "expense"
	ComponentAMQP    = "amqp"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpAdd     = "add"
	OpTotal   = "total"
	OpFilter  = "by_category"
	OpSummary = "summary"
	OpPersist = "persist"
	OpPublish = "publish"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithPath adds the ledger file path
func (f LogFields) WithPath(path string) LogFields {
	f[FieldPath] = path
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(amount float64, category, date string) LogFields {
	f[FieldAmount] = amount
	f[FieldCategory] = category
	f[FieldDate] = date
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
