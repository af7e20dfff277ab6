package catalog

import "errors"

var (
	ErrNotFound      = errors.New("catalog: not found")
	ErrInvalidInput  = errors.New("catalog: invalid input")
	ErrUnknownEntity = errors.New("catalog: unknown entity type")
)
