package registro

import "errors"

var (
	ErrNotFound         = errors.New("registro not found")
	ErrEmptyUpdate      = errors.New("update payload has no fields")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)
