package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrSubscriptionClosed is returned by Subscription.Next once the sequence has ended.
	ErrSubscriptionClosed = errors.New("relay: subscription closed")
	// ErrInvalidHeadData is returned when head data does not decode to a header.
	ErrInvalidHeadData = errors.New("relay: invalid head data")
)

// LocalError is an error of the LocalChain.
type LocalError struct {
	Err error
}

func (e *LocalError) Error() string {
	return fmt.Sprintf("relay: local chain: %s", e.Err)
}

func (e *LocalError) Unwrap() error {
	return e.Err
}

// RemoteError is an error of the Authority. Err is the value the Authority returned.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("relay: authority: %s", e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// errorReason names the kind of the given error for logs and metrics.
func errorReason(err error) string {
	var (
		local  *LocalError
		remote *RemoteError
	)
	switch {
	case errors.As(err, &local):
		return "local"
	case errors.As(err, &remote):
		return "remote"
	case errors.Is(err, ErrInvalidHeadData):
		return "invalid_head_data"
	default:
		return "unknown"
	}
}
