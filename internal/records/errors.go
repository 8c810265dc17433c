package records

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoJSON       = errors.New("no valid JSON data found")
)
