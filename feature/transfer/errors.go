package transfer

import "errors"

var (
	// ErrRecordNotFound means no transfer record has the requested id.
	ErrRecordNotFound = errors.New("transfer record not found")
	// ErrValidation means the request is missing or has malformed fields.
	ErrValidation = errors.New("validation error")
)
