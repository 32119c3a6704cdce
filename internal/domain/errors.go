package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyPayload     = errors.New("empty payload")
	ErrNoItemID         = errors.New("missing item id")
	ErrNonPositivePrice = errors.New("non-positive price")
)
