package domain

import "errors"

var (
	ErrEmptyTransaction  = errors.New("empty_transaction")
	ErrZeroValue         = errors.New("zero_value_transaction")
	ErrUnbalanced        = errors.New("unbalanced_transaction")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrMissingControlAcc = errors.New("missing_control_account")
)
