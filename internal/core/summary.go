package core

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name   string
	Amount float64
}

// Total returns the sum of all amounts, 0 for an empty slice.
func Total(expenses []Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// FilterByCategory returns the expenses whose category equals cat exactly,
// in their original order. The result is never nil.
func FilterByCategory(expenses []Expense, cat string) []Expense {
	out := make([]Expense, 0)
	for _, e := range expenses {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// TotalsByCategory sums amounts per category, ordered by first appearance.
func TotalsByCategory(expenses []Expense) []CategoryTotal {
	index := map[string]int{}
	out := make([]CategoryTotal, 0)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Name: e.Category})
		}
		out[i].Amount += e.Amount
	}
	return out
}
