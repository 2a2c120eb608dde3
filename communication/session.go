package communication


import (
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"oms-loadtest/core/results"
	"oms-loadtest/util"
)


type Dialer interface {
	Dial(network, address string) (net.Conn, error)
}


type SessionParams struct {
	Host            string
	Port            int

	// Bound on the initial connect. DefaultConnectTimeout when zero.
	ConnectTimeout  time.Duration

	// Deadline of one order round trip. Zero blocks until the server
	// answers or the connection fails.
	Timeout         time.Duration

	// Used instead of a net.Dialer when not nil.
	Dialer          Dialer

	Logger          util.Logger
}


// A Session is the persistent connection of one simulated user.
// It is not safe for concurrent use: a user has at most one order in flight.
//
type Session struct {
	addr     string
	conn     net.Conn
	sink     results.EventSink
	timeout  time.Duration
	buffer   []byte
	logger   util.Logger
}

// Open a session to `params.Host:params.Port`. A failed connect does not
// return an error: the session is created disconnected and every order sent
// on it is dropped.
//
func NewSession(params *SessionParams, sink results.EventSink) *Session {
	var this Session
	var dialer Dialer
	var timeout time.Duration
	var err error

	this.addr = net.JoinHostPort(params.Host, strconv.Itoa(params.Port))
	this.sink = sink
	this.timeout = params.Timeout
	this.buffer = make([]byte, ReadBufferSize)

	this.logger = params.Logger
	if this.logger == nil {
		this.logger = util.ExtendLogger("session")
	}

	dialer = params.Dialer
	if dialer == nil {
		timeout = params.ConnectTimeout
		if timeout <= 0 {
			timeout = DefaultConnectTimeout
		}

		dialer = &net.Dialer{ Timeout: timeout }
	}

	this.conn, err = dialer.Dial("tcp", this.addr)
	if err != nil {
		this.logger.Warnf("%s", (&ConnectionError{
			Addr: this.addr,
			Err: err,
		}).Error())
		this.conn = nil
	} else {
		this.logger.Debugf("connection established to %s", this.addr)
	}

	return &this
}

func (this *Session) Connected() bool {
	return (this.conn != nil)
}

func (this *Session) RemoteAddr() string {
	return this.addr
}

// Send one order and wait for the reply.
// Returns the bytes of a single read, possibly empty when the server closed
// the connection, or nil on failure. Every attempt made on a connected
// session is reported to the sink exactly once.
//
func (this *Session) SendOrder(data []byte) []byte {
	var start time.Time
	var elapsed int64
	var reply []byte
	var n int
	var err error

	if this.conn == nil {
		this.logger.Warnf("connection to %s not established", this.addr)
		return nil
	}

	start = time.Now()

	if this.timeout > 0 {
		err = this.conn.SetDeadline(start.Add(this.timeout))
		if err != nil {
			return this.fail(start, "write", err)
		}
	}

	n, err = this.conn.Write(data)
	if (err == nil) && (n < len(data)) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return this.fail(start, "write", err)
	}

	n, err = this.conn.Read(this.buffer)
	if (err != nil) && !errors.Is(err, io.EOF) {
		return this.fail(start, "read", err)
	}

	elapsed = time.Since(start).Milliseconds()

	reply = make([]byte, n)
	copy(reply, this.buffer[:n])

	if n == 0 {
		this.logger.Debugf("connection to %s closed by server",
			this.addr)
	}

	this.sink.Report(RequestKind, OperationName, elapsed, n, nil,
		map[string]interface{}{})

	return reply
}

func (this *Session) fail(start time.Time, op string, err error) []byte {
	var elapsed int64 = time.Since(start).Milliseconds()
	var terr *TransportError = &TransportError{
		Addr: this.addr,
		Op: op,
		Err: err,
	}

	this.logger.Debugf("%s", terr.Error())

	this.sink.Report(RequestKind, OperationName, elapsed, 0, terr,
		map[string]interface{}{})

	return nil
}

// Release the connection. Closing a disconnected or already closed session
// does nothing.
//
func (this *Session) Close() error {
	var err error

	if this.conn == nil {
		return nil
	}

	err = this.conn.Close()
	this.conn = nil

	this.logger.Debugf("connection to %s closed", this.addr)

	return err
}
