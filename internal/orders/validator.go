package orders

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// NewValidator returns a configured validator with struct-level validation
// registered for Order.
func NewValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(orderStructValidation, Order{})
	return v
}

// orderStructValidation enforces aggregate invariants the field tags cannot
// express: every line must carry its parent's id, and a reconstructed order
// must have a complete customer snapshot.
func orderStructValidation(sl validatorv10.StructLevel) {
	order := sl.Current().Interface().(Order)

	for _, line := range order.OrderLines {
		if line.OrderID != order.ID {
			sl.ReportError(line.OrderID, "orderLines", "OrderLines", "line_parent_mismatch", "")
			return
		}
	}

	if order.CreatedDateTime.IsZero() || order.UpdatedDateTime.IsZero() {
		sl.ReportError(order.CreatedDateTime, "createdDateTime", "CreatedDateTime", "timestamp_missing", "")
	}
}
