package handler

import (
	"errors"
	"io"
	"net"
)

// ErrInvalidArgument is returned when a constructor or call argument is nil
// or out of range. It is always reported synchronously to the caller.
var ErrInvalidArgument = errors.New("invalid argument")

// DecodeError reports an inbound payload that could not be reconstructed,
// typically because the peer sent an unregistered or corrupted type. It is
// fatal for the affected connection and is surfaced through the fatal hook
// rather than swallowed like an ordinary disconnect.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decoding inbound payload: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// isDisconnect reports whether err is an expected I/O failure caused by the
// peer going away or the local side closing the transport. Such failures are
// converted into a close and never propagated.
func isDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
