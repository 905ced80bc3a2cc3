package postgres

import (
	"errors"

	"github.com/lib/pq"

	"seva-ledger/internal/domain"
)

const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

// translateConflict maps postgres concurrency failures to the typed
// ErrConcurrentConflict so the service layer can retry them. Other errors
// pass through unchanged.
func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
			return domain.ErrConcurrentConflict
		}
	}
	return err
}
