package results


import (
	"sync"
	"time"
)


// An EventSink receives one sample per request that reached the transport.
// Implementations must be safe for concurrent use: every simulated user
// reports from its own goroutine.
//
type EventSink interface {
	// Report the outcome of one request.
	//
	// kind:      request kind, e.g. "tcp"
	// name:      operation name, e.g. "send_order"
	// elapsedMs: wall clock round trip in milliseconds
	// length:    number of bytes received, 0 on failure
	// err:       nil on success
	// context:   free form annotations, may be empty
	//
	Report(kind, name string, elapsedMs int64, length int, err error, context map[string]interface{})
}


type MultiSink []EventSink

func (this MultiSink) Report(kind, name string, elapsedMs int64, length int, err error, context map[string]interface{}) {
	var sink EventSink

	for _, sink = range this {
		sink.Report(kind, name, elapsedMs, length, err, context)
	}
}


type requestStat struct {
	kind       string
	name       string
	latencies  []int64
	failures   int
	bytes      int64
	errors     map[string]int
}


// Collector keeps every sample in memory and turns them into a Summary at
// the end of the run.
//
type Collector struct {
	lock   sync.Mutex
	runId  string
	start  time.Time
	stats  map[string]*requestStat
	keys   []string
	now    func() time.Time
}

func NewCollector(runId string) *Collector {
	return &Collector{
		runId: runId,
		start: time.Now(),
		stats: make(map[string]*requestStat, 0),
		keys: make([]string, 0),
		now: time.Now,
	}
}

func (this *Collector) getStat(kind, name string) *requestStat {
	var key string = kind + " " + name
	var stat *requestStat
	var present bool

	stat, present = this.stats[key]

	if present == false {
		stat = &requestStat{
			kind: kind,
			name: name,
			latencies: make([]int64, 0, 1024),
			errors: make(map[string]int, 0),
		}

		this.stats[key] = stat
		this.keys = append(this.keys, key)
	}

	return stat
}

func (this *Collector) Report(kind, name string, elapsedMs int64, length int, err error, context map[string]interface{}) {
	var stat *requestStat

	this.lock.Lock()
	defer this.lock.Unlock()

	stat = this.getStat(kind, name)
	stat.latencies = append(stat.latencies, elapsedMs)
	stat.bytes += int64(length)

	if err != nil {
		stat.failures += 1
		stat.errors[err.Error()] += 1
	}
}

// Number of samples received so far.
//
func (this *Collector) Count() int {
	var stat *requestStat
	var count int

	this.lock.Lock()
	defer this.lock.Unlock()

	for _, stat = range this.stats {
		count += len(stat.latencies)
	}

	return count
}

func (this *Collector) Summary() *Summary {
	var requests []RequestSummary
	var all *requestStat
	var stat *requestStat
	var duration float64
	var msg string
	var key string
	var count int

	this.lock.Lock()
	defer this.lock.Unlock()

	duration = this.now().Sub(this.start).Seconds()
	requests = make([]RequestSummary, 0, len(this.keys))

	all = &requestStat{
		kind: "",
		name: "Aggregated",
		latencies: make([]int64, 0),
		errors: make(map[string]int, 0),
	}

	for _, key = range this.keys {
		stat = this.stats[key]
		requests = append(requests, summarize(stat, duration))

		all.latencies = append(all.latencies, stat.latencies...)
		all.failures += stat.failures
		all.bytes += stat.bytes
		for msg, count = range stat.errors {
			all.errors[msg] += count
		}
	}

	return &Summary{
		RunId: this.runId,
		Duration: duration,
		Requests: requests,
		Total: summarize(all, duration),
	}
}
