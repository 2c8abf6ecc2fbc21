package domain

import "errors"

var (
	ErrInvalidHotel      = errors.New("invalid_hotel")
	ErrInvalidOutlet     = errors.New("invalid_outlet")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrNotFound          = errors.New("not_found")
)
