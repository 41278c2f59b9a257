package redisfacade

import (
	"errors"
	"fmt"

	"github.com/mediocregopher/radix/v3/resp/resp2"
)

var (
	// ErrConfiguration is returned for a missing connection identifier, an
	// empty key, a nil handler or any other invalid argument. It is raised
	// before anything is sent to the server.
	ErrConfiguration = errors.New("redisfacade: configuration error")

	// ErrSerialization wraps codec failures.
	ErrSerialization = errors.New("redisfacade: serialization error")

	// ErrTransport wraps failures of the underlying connection.
	ErrTransport = errors.New("redisfacade: transport error")

	// ErrScript wraps server-side script evaluation failures.
	ErrScript = errors.New("redisfacade: script error")
)

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func serializationErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

// scriptErr separates errors replied by the server while running a script
// from network level failures.
func scriptErr(op string, err error) error {
	var rerr resp2.Error
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %s: %w", ErrScript, op, err)
	}
	return transportErr(op, err)
}

// BatchError reports a multi-key operation that ran to the end but failed
// for some of its keys.
type BatchError struct {
	Completed int
	Failed    int
	Err       error // first failure
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("redisfacade: batch completed %d, failed %d: %v", e.Completed, e.Failed, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
