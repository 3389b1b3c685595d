package workflow

import "errors"

var (
	ErrDuplicateTransactionID = errors.New("transaction id already submitted")
	ErrMissingTransactionID   = errors.New("transaction id is required")
	ErrNotFound               = errors.New("record not found")
	ErrInvalidStatus          = errors.New("invalid status transition")
	ErrBelowMinimum           = errors.New("amount below minimum withdrawal")
	ErrProductUnavailable     = errors.New("product is not available")
	ErrAlreadyPurchased       = errors.New("product already purchased")
	ErrPaymentMethodNotFound  = errors.New("payment method not found")
)
