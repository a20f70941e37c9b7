package service

import "errors"

var (
	ErrItemNotFound    = errors.New("product not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be greater than 1")
)
