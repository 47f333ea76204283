package steam

import "errors"

var (
	// ErrSourceUnavailable covers timeouts, connection failures, non-200
	// statuses and an open circuit breaker. Retryable on a later cycle.
	ErrSourceUnavailable = errors.New("steam api unavailable")

	// ErrSourceInvalidData means the upstream answered but the payload did
	// not parse. Retrying the same request will not help this cycle.
	ErrSourceInvalidData = errors.New("steam api returned invalid data")
)

// Retryable reports whether an error from this package is worth retrying
// on a later cycle. The snapshot recorder treats both classes as non-fatal,
// but callers that back off want the distinction.
func Retryable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
