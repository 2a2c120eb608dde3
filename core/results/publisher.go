package results


import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"oms-loadtest/util"
)


// One sample as published on the wire.
//
type Sample struct {
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	Length     int        `json:"length"`
	Error      string     `json:"error,omitempty"`
	Time       time.Time  `json:"time"`
}


type publishConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}


// Publisher streams every sample as JSON on a NATS subject so an external
// aggregator can follow the run live.
//
type Publisher struct {
	conn     publishConn
	subject  string
	logger   util.Logger
}

func NewPublisher(url, subject string, logger util.Logger) (*Publisher, error) {
	var conn *nats.Conn
	var err error

	conn, err = nats.Connect(url, nats.Name("omsload"))
	if err != nil {
		return nil, err
	}

	logger.Infof("publish samples on %s subject %s", conn.ConnectedUrl(),
		subject)

	return newPublisher(conn, subject, logger), nil
}

func newPublisher(conn publishConn, subject string, logger util.Logger) *Publisher {
	return &Publisher{
		conn: conn,
		subject: subject,
		logger: logger,
	}
}

func (this *Publisher) Report(kind, name string, elapsedMs int64, length int, err error, context map[string]interface{}) {
	var sample Sample
	var data []byte
	var perr error

	sample.Kind = kind
	sample.Name = name
	sample.ElapsedMs = elapsedMs
	sample.Length = length
	sample.Time = time.Now()

	if err != nil {
		sample.Error = err.Error()
	}

	data, perr = json.Marshal(&sample)
	if perr != nil {
		this.logger.Warnf("cannot encode sample: %s", perr.Error())
		return
	}

	perr = this.conn.Publish(this.subject, data)
	if perr != nil {
		this.logger.Warnf("cannot publish sample: %s", perr.Error())
	}
}

// Flush pending samples and close the connection.
//
func (this *Publisher) Close() error {
	return this.conn.Drain()
}
