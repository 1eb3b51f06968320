package domain

import "errors"

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrInvalidColumnSet = errors.New("invalid column set")
	ErrInvalidDate      = errors.New("invalid date")
)
