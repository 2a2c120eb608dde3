package communication

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"oms-loadtest/protocol"
)

var fixedNow = time.Date(2025, time.January, 23, 4, 45, 0, 0, time.UTC)

type refusingDialer struct {
	calls int
}

func (d *refusingDialer) Dial(network, address string) (net.Conn, error) {
	d.calls++
	return nil, syscall.ECONNREFUSED
}

type brokenConn struct {
	net.Conn
	writeErr error
	readErr  error
	closed   int
}

func (c *brokenConn) SetDeadline(time.Time) error { return nil }

func (c *brokenConn) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return len(b), nil
}

func (c *brokenConn) Read(b []byte) (int, error) {
	return 0, c.readErr
}

func (c *brokenConn) Close() error {
	c.closed++
	return nil
}

type connDialer struct {
	conn net.Conn
}

func (d *connDialer) Dial(network, address string) (net.Conn, error) {
	return d.conn, nil
}

func startExchange(t *testing.T, params *MockParams) *MockExchange {
	exchange, err := NewMockExchange("127.0.0.1:0", params)
	require.NoError(t, err)

	go exchange.Serve()
	t.Cleanup(func() { exchange.Close() })

	return exchange
}

func captureError(target *error) func(string, string, int64, int, error, map[string]any) {
	return func(_ string, _ string, _ int64, _ int, err error, _ map[string]any) {
		*target = err
	}
}

func TestSessionDisconnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	dialer := &refusingDialer{}

	session := NewSession(&SessionParams{Host: "127.0.0.1", Port: 8080, Dialer: dialer}, sink)

	assert.False(t, session.Connected())
	assert.Equal(t, "127.0.0.1:8080", session.RemoteAddr())

	t.Run("send returns nothing and reports nothing", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.Nil(t, session.SendOrder(protocol.EncodeOrder(i, "UserID123")))
		}
		assert.Equal(t, 1, dialer.calls, "no reconnection attempt")
	})

	t.Run("close is a no-op", func(t *testing.T) {
		assert.NoError(t, session.Close())
		assert.NoError(t, session.Close())
	})
}

func TestSessionRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	exchange := startExchange(t, &MockParams{Clock: func() time.Time { return fixedNow }})

	session := NewSession(&SessionParams{Host: "127.0.0.1", Port: exchange.Port()}, sink)
	defer session.Close()
	require.True(t, session.Connected())

	sink.EXPECT().
		Report("tcp", "send_order", gomock.Any(), 64, gomock.Nil(), gomock.Any()).
		Times(2)

	for sequence := 0; sequence < 2; sequence++ {
		reply := session.SendOrder(protocol.EncodeOrder(sequence, "UserID123"))
		require.Len(t, reply, 64)

		response, err := protocol.DecodeResponse(reply)
		require.NoError(t, err)
		assert.Equal(t, protocol.RESPONSE_TRANSACTION_ID, response.TransactionId)
		assert.Equal(t, protocol.TransactionCode(sequence), response.TransactionCode)
		assert.Equal(t, "UserID123           ", response.UserId)
		assert.Equal(t, "20250123134500", response.Time)
		assert.True(t, response.Accepted())
	}

	assert.Eventually(t, func() bool { return exchange.Orders() == 2 }, time.Second, 10*time.Millisecond)
}

func TestSessionTransportFailure(t *testing.T) {
	t.Run("write fails", func(t *testing.T) {
		var reported error
		var terr *TransportError

		ctrl := gomock.NewController(t)
		sink := NewMockEventSink(ctrl)
		conn := &brokenConn{writeErr: syscall.ECONNRESET}

		session := NewSession(&SessionParams{Host: "exchange", Port: 9000, Dialer: &connDialer{conn}}, sink)

		sink.EXPECT().
			Report("tcp", "send_order", gomock.Any(), 0, gomock.Not(gomock.Nil()), gomock.Any()).
			Do(captureError(&reported)).
			Times(1)

		assert.Nil(t, session.SendOrder(protocol.EncodeOrder(0, "UserID123")))

		require.True(t, errors.As(reported, &terr))
		assert.Equal(t, "write", terr.Op)
		assert.Equal(t, "exchange:9000", terr.Addr)
		assert.True(t, errors.Is(reported, syscall.ECONNRESET))
	})

	t.Run("read fails", func(t *testing.T) {
		var reported error

		ctrl := gomock.NewController(t)
		sink := NewMockEventSink(ctrl)
		conn := &brokenConn{readErr: syscall.ECONNRESET}

		session := NewSession(&SessionParams{Host: "exchange", Port: 9000, Dialer: &connDialer{conn}}, sink)

		sink.EXPECT().
			Report("tcp", "send_order", gomock.Any(), 0, gomock.Not(gomock.Nil()), gomock.Any()).
			Do(captureError(&reported)).
			Times(1)

		assert.Nil(t, session.SendOrder(protocol.EncodeOrder(0, "UserID123")))
		assert.ErrorContains(t, reported, "failed to read")

		require.NoError(t, session.Close())
		require.NoError(t, session.Close())
		assert.Equal(t, 1, conn.closed)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		var reported error

		ctrl := gomock.NewController(t)
		sink := NewMockEventSink(ctrl)
		exchange := startExchange(t, &MockParams{Delay: 500 * time.Millisecond})

		session := NewSession(&SessionParams{
			Host:    "127.0.0.1",
			Port:    exchange.Port(),
			Timeout: 50 * time.Millisecond,
		}, sink)
		defer session.Close()

		sink.EXPECT().
			Report("tcp", "send_order", gomock.Any(), 0, gomock.Not(gomock.Nil()), gomock.Any()).
			Do(captureError(&reported)).
			Times(1)

		assert.Nil(t, session.SendOrder(protocol.EncodeOrder(0, "UserID123")))
		assert.True(t, errors.Is(reported, os.ErrDeadlineExceeded))
	})
}

func TestSessionServerClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		c, err := listener.Accept()
		if err != nil {
			return
		}
		io.ReadFull(c, make([]byte, protocol.OrderLayout().Size()))
		c.Close()
	}()

	session := NewSession(&SessionParams{
		Host: "127.0.0.1",
		Port: listener.Addr().(*net.TCPAddr).Port,
	}, sink)
	defer session.Close()

	sink.EXPECT().
		Report("tcp", "send_order", gomock.Any(), 0, gomock.Nil(), gomock.Any()).
		Times(1)

	reply := session.SendOrder(protocol.EncodeOrder(0, "UserID123"))
	assert.NotNil(t, reply)
	assert.Empty(t, reply)
}

func TestMockExchangeReject(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	exchange := startExchange(t, &MockParams{RejectCode: "E777"})

	session := NewSession(&SessionParams{Host: "127.0.0.1", Port: exchange.Port()}, sink)
	defer session.Close()

	sink.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any(), 64, gomock.Nil(), gomock.Any())

	response, err := protocol.DecodeResponse(session.SendOrder(protocol.EncodeOrder(5, "trader")))
	require.NoError(t, err)
	assert.Equal(t, "E777", response.RejectCode)
	assert.False(t, response.Accepted())
	assert.Equal(t, "800006", response.TransactionCode)

	require.NoError(t, exchange.Close())
	require.NoError(t, exchange.Close())
}
