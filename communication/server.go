package communication

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"oms-loadtest/protocol"
	"oms-loadtest/util"
)

// MockParams configures the behaviour of a MockExchange.
type MockParams struct {
	RejectCode string           // Reject code of every reply, "0000" when empty
	Delay      time.Duration    // Wait before each reply
	Clock      func() time.Time // Time stamped on replies, time.Now when nil
	Logger     util.Logger
}

// MockExchange stands for the order management server. It answers every
// order with an acknowledgement echoing its transaction code and user id.
type MockExchange struct {
	Listener net.Listener // TCP listener accepting the simulated users

	rejectCode string
	delay      time.Duration
	clock      func() time.Time
	logger     util.Logger

	lock   sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
	orders int64
}

// NewMockExchange listens on addr. Use port 0 to pick a free port.
func NewMockExchange(addr string, params *MockParams) (*MockExchange, error) {
	listener, err := net.Listen("tcp", addr)

	// If we can't make a listener, we
	// should fail graciously but immediately.
	if err != nil {
		return nil, err
	}

	s := &MockExchange{
		Listener:   listener,
		rejectCode: params.RejectCode,
		delay:      params.Delay,
		clock:      params.Clock,
		logger:     params.Logger,
		conns:      make(map[net.Conn]struct{}),
	}

	if s.rejectCode == "" {
		s.rejectCode = protocol.REJECT_CODE_NONE
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = util.ExtendLogger("exchange")
	}

	return s, nil
}

// Addr is the address the exchange listens on.
func (s *MockExchange) Addr() string {
	return s.Listener.Addr().String()
}

// Port is the port the exchange listens on.
func (s *MockExchange) Port() int {
	return s.Listener.Addr().(*net.TCPAddr).Port
}

// Orders is the number of orders received so far.
func (s *MockExchange) Orders() int64 {
	return atomic.LoadInt64(&s.orders)
}

// Serve accepts connections until Close is called.
func (s *MockExchange) Serve() error {
	for {
		c, err := s.Listener.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return err
		}

		s.lock.Lock()
		if s.closed {
			s.lock.Unlock()
			c.Close()
			return nil
		}
		s.conns[c] = struct{}{}
		s.wg.Add(1)
		s.lock.Unlock()

		go s.handle(c)
	}
}

func (s *MockExchange) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}

func (s *MockExchange) handle(c net.Conn) {
	defer func() {
		s.lock.Lock()
		delete(s.conns, c)
		s.lock.Unlock()
		c.Close()
		s.wg.Done()
	}()

	s.logger.Debugf("client connected from %s", c.RemoteAddr().String())

	buf := make([]byte, protocol.OrderLayout().Size())

	for {
		_, err := io.ReadFull(c, buf)
		if err != nil {
			if !errors.Is(err, io.EOF) && !s.isClosed() {
				s.logger.Warnf("receive failed from %s: %s",
					c.RemoteAddr().String(), err.Error())
			}
			s.logger.Debugf("client %s disconnected", c.RemoteAddr().String())
			return
		}

		atomic.AddInt64(&s.orders, 1)

		order, err := protocol.DecodeOrder(buf)
		if err != nil {
			s.logger.Warnf("drop order: %s", err.Error())
			continue
		}

		now := s.clock()
		if sent, err := protocol.ParseOrderTime(order.OrderTime); err == nil {
			s.logger.Tracef("order %s from '%s' received %s after submission",
				order.TransactionCode, order.UserId, now.Sub(sent))
		}

		if s.delay > 0 {
			time.Sleep(s.delay)
		}

		reply := protocol.EncodeResponse(&protocol.Response{
			TransactionId:   protocol.RESPONSE_TRANSACTION_ID,
			Length:          protocol.RESPONSE_LENGTH,
			TransactionCode: order.TransactionCode,
			UserId:          order.UserId,
			Time:            protocol.FormatOrderTime(now),
			RejectCode:      s.rejectCode,
		})

		if _, err := c.Write(reply); err != nil {
			s.logger.Warnf("failed to send response to %s: %s",
				c.RemoteAddr().String(), err.Error())
			return
		}
	}
}

// Close the listener and every client connection, then wait for the
// handlers to exit.
func (s *MockExchange) Close() error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil
	}
	s.closed = true
	err := s.Listener.Close()
	for c := range s.conns {
		c.Close()
	}
	s.lock.Unlock()

	s.wg.Wait()

	return err
}
