package communication

import (
	"fmt"
)

// ConnectionError is when a session fails to open its connection to the
// server. The session is left disconnected.
type ConnectionError struct {
	Addr string // Address of the server
	Err  error  // The dial error
}

// TransportError is when a connected session fails to send an order or to
// read the reply.
type TransportError struct {
	Addr string // Address of the server
	Op   string // "write" or "read"
	Err  error  // The underlying I/O error
}

// Error message for the connection error
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %s", e.Addr, e.Err.Error())
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Error message for the transport error
func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Addr, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
