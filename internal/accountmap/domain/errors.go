package domain

import "errors"

var (
	ErrInvalidHotel   = errors.New("invalid_hotel")
	ErrInvalidOutlet  = errors.New("invalid_outlet")
	ErrInvalidAccount = errors.New("invalid_account")
	ErrNotFound       = errors.New("not_found")
)
