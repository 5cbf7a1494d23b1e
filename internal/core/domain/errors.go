package domain

import "errors"

var (
	ErrDuplicateLocation    = errors.New("location already exists")
	ErrUnknownLocation      = errors.New("location does not exist")
	ErrLocationNotEmpty     = errors.New("location still holds inventory")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)
