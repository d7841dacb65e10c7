package order

import "errors"

// The engine's failure taxonomy. Every failure aborts the whole call with no
// partial mutation; callers resubmit with corrected arguments.
var (
	ErrInvalidOrder          = errors.New("invalid order")
	ErrExpiredOrder          = errors.New("order expired")
	ErrDuplicateOrder        = errors.New("duplicate order key")
	ErrNotFound              = errors.New("order not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidState          = errors.New("invalid order state")
	ErrPartialFillNotAllowed = errors.New("partial fill not allowed")
	ErrInvalidTokenIds       = errors.New("invalid token ids")
	ErrPriceMismatch         = errors.New("price mismatch")
)
