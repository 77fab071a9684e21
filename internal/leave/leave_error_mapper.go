package leave

import (
	"errors"

	leaveerrors "go-leavedesk/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres reports lost races as distinct SQLSTATEs: 40001 serialization
// failure, 40P01 deadlock, 55P03 lock not available. All of them mean the
// statement may succeed on retry.
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if isRetryableConflict(err) {
		return leaveerrors.ErrConcurrencyConflict
	}
	return err
}
