package domain

import "errors"

var (
	ErrInvalidReference = errors.New("transfer_reference_invalid")
	ErrSameReference    = errors.New("transfer_reference_same")
	ErrInvalidAmount    = errors.New("transfer_amount_invalid")
	ErrInvalidAccount   = errors.New("transfer_account_invalid")
	ErrInvalidCurrency  = errors.New("transfer_currency_invalid")
)
