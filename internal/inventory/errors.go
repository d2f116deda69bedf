package inventory

import "errors"

var (
	ErrNotFound         = errors.New("inventory not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNameRequired     = errors.New("inventory name required")
	ErrInvalidValue     = errors.New("invalid value")
)
