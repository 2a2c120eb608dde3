// Package results collects the samples reported by the simulated users and
// turns them into the figures of a load test: latency distribution, failure
// count and throughput.
// Samples can also be exported while the test runs, to Prometheus or to a
// NATS subject.
package results

import (
	"math"
	"sort"
)

// Summary is the outcome of a whole run.
type Summary struct {
	RunId    string           `json:"RunId"`
	Duration float64          `json:"Duration"` // Seconds between collector creation and summary
	Requests []RequestSummary `json:"Requests"` // One entry per request kind and name
	Total    RequestSummary   `json:"Total"`    // All requests together
}

// RequestSummary holds the figures of one request kind and name.
// Latencies are in milliseconds and include failed requests.
type RequestSummary struct {
	Kind           string         `json:"Kind"`
	Name           string         `json:"Name"`
	Requests       int            `json:"Requests"`
	Failures       int            `json:"Failures"`
	ResponseBytes  int64          `json:"ResponseBytes"`
	MinLatency     float64        `json:"MinLatency"`
	MaxLatency     float64        `json:"MaxLatency"`
	AverageLatency float64        `json:"AverageLatency"`
	MedianLatency  float64        `json:"MedianLatency"`
	P95Latency     float64        `json:"P95Latency"`
	Throughput     float64        `json:"Throughput"` // Requests per second
	Errors         map[string]int `json:"Errors,omitempty"`
}

// FailureRatio is the share of failed requests, 0 when nothing was sent.
func (s *RequestSummary) FailureRatio() float64 {
	if s.Requests == 0 {
		return 0
	}

	return float64(s.Failures) / float64(s.Requests)
}

func summarize(stat *requestStat, duration float64) RequestSummary {
	ret := RequestSummary{
		Kind:          stat.kind,
		Name:          stat.name,
		Requests:      len(stat.latencies),
		Failures:      stat.failures,
		ResponseBytes: stat.bytes,
	}

	if len(stat.errors) > 0 {
		ret.Errors = make(map[string]int, len(stat.errors))
		for msg, count := range stat.errors {
			ret.Errors[msg] = count
		}
	}

	if len(stat.latencies) == 0 {
		return ret
	}

	allLatencies := make([]float64, len(stat.latencies))
	var sumLatencies float64
	for i, latency := range stat.latencies {
		allLatencies[i] = float64(latency)
		sumLatencies += float64(latency)
	}

	sort.Float64s(allLatencies)

	// If it's even
	var medianLatency float64
	midNumber := len(allLatencies) / 2
	if len(allLatencies)%2 == 0 {
		medianLatency = (allLatencies[midNumber-1] + allLatencies[midNumber]) / 2
	} else {
		medianLatency = allLatencies[midNumber]
	}

	// Nearest rank
	rank := int(math.Ceil(0.95*float64(len(allLatencies)))) - 1

	ret.MinLatency = allLatencies[0]
	ret.MaxLatency = allLatencies[len(allLatencies)-1]
	ret.AverageLatency = sumLatencies / float64(len(allLatencies))
	ret.MedianLatency = medianLatency
	ret.P95Latency = allLatencies[rank]

	if duration > 0 {
		ret.Throughput = float64(len(allLatencies)) / duration
	}

	return ret
}
