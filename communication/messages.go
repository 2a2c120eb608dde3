// This file lists the constants shared by the load generating sessions and the
// mock exchange.

// Package communication provides the tcp transport between the simulated users
// and the order management server. A Session carries the orders of one user
// over one persistent connection; the MockExchange plays the server side for
// local runs and tests.
package communication

import (
	"time"
)

// Sample labels reported for every order.
const (
	RequestKind   = "tcp"        // Kind of every request sent by a session
	OperationName = "send_order" // Name of the order round trip
)

// ReadBufferSize bounds a single read of the reply. It is a read ceiling, not
// a message size: the reply is whatever one read returns.
const ReadBufferSize = 1024

// DefaultConnectTimeout is used when the session parameters do not set one.
const DefaultConnectTimeout = 10 * time.Second
