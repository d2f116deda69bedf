package reconcile

import "errors"

var (
	ErrMissingSessionID     = errors.New("missing inventory session id")
	ErrSessionNotFound      = errors.New("inventory session not found")
	ErrAlreadyClosed        = errors.New("inventory session already closed")
	ErrReconciliationFailed = errors.New("inventory reconciliation failed")
)
