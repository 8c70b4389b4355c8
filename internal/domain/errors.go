package domain

import "errors"

var (
	ErrNotFound               = errors.New("dispute not found")
	ErrForbidden              = errors.New("caller is not allowed to perform this action")
	ErrInvalidState           = errors.New("action is not allowed in the current dispute status")
	ErrValidation             = errors.New("validation failed")
	ErrAdjudicatorUnavailable = errors.New("adjudicator unavailable")
)
