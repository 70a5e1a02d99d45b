package shared

import (
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/pkg/errs"
)

// StoreErr turns a repository failure into what a use case returns: the
// given not-found kind when the row is missing, otherwise the original error
// marked as a database failure.
func StoreErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && infra.IsKind(err, infra.KindNotFound) {
		return notFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
