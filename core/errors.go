package core

import "errors"

// Error taxonomy shared by every surface. The web and bot layers translate
// these into HTTP statuses or chat replies; nothing in core ever panics on
// them.
var (
	ErrNotAuthenticated       = errors.New("actor is not authenticated")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrNotFound               = errors.New("record not found")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrAuditWriteFailed       = errors.New("audit write failed")
)
