package impl

import "errors"

var (
	ErrEmptySecret = errors.New("admin secret cannot be empty")
)
