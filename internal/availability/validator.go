// Package availability annotates resolved cart lines with stock status.
// It never fails; unavailable lines carry a shopper-facing message instead.
package availability

import "fmt"

// Status is the availability verdict for a single requested line.
type Status struct {
	Available bool
	Message   string
}

// Evaluate checks a requested quantity against resolved stock. Inactive and
// unresolved products are treated the same as zero stock.
func Evaluate(active bool, stock int64, quantity int) Status {
	if !active {
		return Status{Message: "No longer available"}
	}
	if stock <= 0 {
		return Status{Message: "Out of stock"}
	}
	if stock < int64(quantity) {
		return Status{Message: fmt.Sprintf("Only %d left in stock", stock)}
	}
	return Status{Available: true}
}
