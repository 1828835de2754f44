package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers handle specific business failures
// programmatically. Handlers map any ValidationError to a 400 response.
var (
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrEmptyCart            = errors.New("order must contain at least one item")
	ErrNonPositiveQuantity  = errors.New("item quantity must be positive")
	ErrNegativeTender       = errors.New("paid amount cannot be negative")
	ErrNonPositiveAmount    = errors.New("payment amount must be positive")
	ErrPaymentExceedsDebt   = errors.New("payment amount cannot exceed the remaining debt")
	ErrOrderSettled         = errors.New("order has no outstanding debt")
	ErrDiscountOutOfRange   = errors.New("discount rate must be between 0 and 100")
	ErrUnknownProduct       = errors.New("product does not exist")
	ErrInvalidSaleType      = errors.New("sale type must be retail, agency or internal")
)

// ValidationError wraps a sentinel error with human-readable details.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is caller-recoverable input validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(err error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}
