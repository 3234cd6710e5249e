// Package perrors defines the typed error taxonomy surfaced by the driver
// client runtime. Every error the core returns to a caller is one of the
// kinds declared here. Each kind except ErrorResponded unwraps to a
// sentinel so callers can use errors.Is; ErrorResponded has no sentinel and
// is matched with errors.As.
package perrors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is against these to classify a returned error.
var (
	// ErrTransportClosed indicates the Transport's I/O failed or hit EOF.
	ErrTransportClosed = errors.New("transport closed")
	// ErrConnectionClosed indicates the Connection is no longer running.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrObjectGone indicates a weak façade reference could not be upgraded.
	ErrObjectGone = errors.New("object gone")
	// ErrObjectDisposed indicates a waiter was outstanding when its object
	// was disposed.
	ErrObjectDisposed = errors.New("object disposed")
	// ErrSerde indicates malformed JSON was received from the driver.
	ErrSerde = errors.New("malformed driver message")
	// ErrTimedOut indicates an event or operation exceeded its deadline.
	ErrTimedOut = errors.New("timed out")
	// ErrInitializationFailed indicates the child process did not produce
	// the expected initial object.
	ErrInitializationFailed = errors.New("driver initialization failed")
)

// TransportClosed wraps ErrTransportClosed with the underlying I/O cause.
type TransportClosed struct{ Cause error }

func (e *TransportClosed) Error() string {
	if e.Cause == nil {
		return ErrTransportClosed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransportClosed, e.Cause)
}

func (e *TransportClosed) Unwrap() error { return ErrTransportClosed }

// ConnectionClosed wraps ErrConnectionClosed with the cause that closed it,
// if any (nil for an explicit, graceful Close).
type ConnectionClosed struct{ Cause error }

func (e *ConnectionClosed) Error() string {
	if e.Cause == nil {
		return ErrConnectionClosed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrConnectionClosed, e.Cause)
}

func (e *ConnectionClosed) Unwrap() error { return ErrConnectionClosed }

// ObjectGone reports that a façade's weak guid reference no longer resolves
// to a live remote object.
type ObjectGone struct{ GUID string }

func (e *ObjectGone) Error() string {
	return fmt.Sprintf("%s: %s", ErrObjectGone, e.GUID)
}

func (e *ObjectGone) Unwrap() error { return ErrObjectGone }

// ObjectDisposed reports that a waiter failed because its target object was
// disposed while the request was outstanding.
type ObjectDisposed struct{ GUID string }

func (e *ObjectDisposed) Error() string {
	return fmt.Sprintf("%s: %s", ErrObjectDisposed, e.GUID)
}

func (e *ObjectDisposed) Unwrap() error { return ErrObjectDisposed }

// ErrorResponded is a driver-side failure surfaced verbatim from a Response
// error payload.
type ErrorResponded struct {
	Name    string
	Message string
	Stack   string
}

func (e *ErrorResponded) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Serde wraps a JSON decoding failure encountered while reading a driver
// message.
type Serde struct {
	Cause error
	Raw   []byte
}

func (e *Serde) Error() string {
	return fmt.Sprintf("%s: %v", ErrSerde, e.Cause)
}

func (e *Serde) Unwrap() error { return ErrSerde }

// TimedOut reports that the named wait exceeded its deadline.
type TimedOut struct{ Waiting string }

func (e *TimedOut) Error() string {
	if e.Waiting == "" {
		return ErrTimedOut.Error()
	}
	return fmt.Sprintf("%s: %s", ErrTimedOut, e.Waiting)
}

func (e *TimedOut) Unwrap() error { return ErrTimedOut }

// InitializationFailed reports that the driver process did not hand back
// the expected root object during startup.
type InitializationFailed struct{ Cause error }

func (e *InitializationFailed) Error() string {
	if e.Cause == nil {
		return ErrInitializationFailed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrInitializationFailed, e.Cause)
}

func (e *InitializationFailed) Unwrap() error { return ErrInitializationFailed }
