package core


import (
	"time"

	"oms-loadtest/communication"
	"oms-loadtest/core/results"
	"oms-loadtest/protocol"
	"oms-loadtest/util"
)


const DEFAULT_REQUEST_THRESHOLD int = 1000


type DriverState uint8

const (
	DRIVER_IDLE     DriverState = 0
	DRIVER_RUNNING  DriverState = 1
	DRIVER_STOPPED  DriverState = 2
)

func (this DriverState) String() string {
	switch this {
	case DRIVER_IDLE: return "idle"
	case DRIVER_RUNNING: return "running"
	case DRIVER_STOPPED: return "stopped"
	default: return "unknown"
	}
}


// Implemented by the scheduler running a driver. The driver calls it once,
// when it has sent all its requests, to ask not to be stepped anymore.
//
type Remover interface {
	RequestRemoval()
}


type DriverParams struct {
	Session    communication.SessionParams
	Sink       results.EventSink
	Template   protocol.OrderTemplate
	UserId     string

	// Number of requests after which the user asks for removal.
	// DEFAULT_REQUEST_THRESHOLD when zero or negative.
	Threshold  int

	// Time stamped on orders, time.Now when nil.
	Clock      func() time.Time

	Logger     util.Logger
}


// The request loop of one simulated user.
// Counters advance on every request, whatever its outcome: the driver
// measures sustained load, not the success of each exchange.
//
type Driver struct {
	params          DriverParams
	remover         Remover
	session         *communication.Session
	state           DriverState
	sequence        int
	requests        int
	decodeFailures  int
	rejections      int
	logger          util.Logger
}

func NewDriver(params *DriverParams, remover Remover) *Driver {
	var this Driver

	this.params = *params
	this.remover = remover
	this.state = DRIVER_IDLE

	if this.params.Threshold <= 0 {
		this.params.Threshold = DEFAULT_REQUEST_THRESHOLD
	}

	if this.params.Clock == nil {
		this.params.Clock = time.Now
	}

	this.logger = this.params.Logger
	if this.logger == nil {
		this.logger = util.ExtendLogger("driver")
	}

	if this.params.Session.Logger == nil {
		this.params.Session.Logger = this.logger.Extend("session")
	}

	return &this
}

func (this *Driver) State() DriverState {
	return this.state
}

func (this *Driver) Sequence() int {
	return this.sequence
}

func (this *Driver) Requests() int {
	return this.requests
}

func (this *Driver) DecodeFailures() int {
	return this.decodeFailures
}

func (this *Driver) Rejections() int {
	return this.rejections
}

// Open the session and reset the counters.
//
func (this *Driver) Start() {
	if this.state == DRIVER_RUNNING {
		return
	}

	this.session = communication.NewSession(&this.params.Session,
		this.params.Sink)
	this.sequence = 0
	this.requests = 0
	this.state = DRIVER_RUNNING

	this.logger.Debugf("start user '%s' for %d requests",
		this.params.UserId, this.params.Threshold)
}

// Send one order. Return false, without sending anything, once the request
// threshold is reached or the driver is not running.
//
func (this *Driver) Step() bool {
	var response *protocol.Response
	var order, reply []byte
	var err error

	if this.state != DRIVER_RUNNING {
		return false
	}

	if this.requests >= this.params.Threshold {
		this.logger.Debugf("threshold of %d requests reached",
			this.params.Threshold)
		this.state = DRIVER_STOPPED
		this.remover.RequestRemoval()
		return false
	}

	order = this.params.Template.Encode(this.sequence,
		this.params.UserId, this.params.Clock())

	reply = this.session.SendOrder(order)
	if len(reply) > 0 {
		response, err = protocol.DecodeResponse(reply)
		if err != nil {
			this.decodeFailures += 1
			this.logger.Warnf("unusable response to order %d: %s",
				this.sequence, err.Error())
		} else if !response.Accepted() {
			this.rejections += 1
			this.logger.Debugf("order %s rejected with '%s'",
				response.TransactionCode, response.RejectCode)
		} else {
			this.logger.Tracef("response: %+v", *response)
		}
	}

	this.sequence += 1
	this.requests += 1

	return true
}

// Close the session. The driver cannot be stepped anymore.
//
func (this *Driver) Stop() {
	var err error

	if this.session != nil {
		err = this.session.Close()
		if err != nil {
			this.logger.Warnf("close session: %s", err.Error())
		}
	}

	this.state = DRIVER_STOPPED
}
