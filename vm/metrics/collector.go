package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespaceHarness  = "motsu"
	subsystemDispatch = "dispatch"
	subsystemEvents   = "events"

	LabelMethod = "method"
)

// Collector receives dispatch level measurements of a VM.
type Collector interface {
	// CallDispatched is reported once per call frame, after it returned.
	CallDispatched(method string, depth int)
	// CallReverted is reported for every frame whose changes were rolled back.
	CallReverted(method string)
	// EventEmitted is reported for every event appended to a contract log.
	EventEmitted()
}

// DispatchCollector exports dispatch measurements to prometheus.
type DispatchCollector struct {
	calls     *prometheus.CounterVec
	reverts   *prometheus.CounterVec
	callDepth prometheus.Histogram
	events    prometheus.Counter
}

var _ Collector = (*DispatchCollector)(nil)

func NewDispatchCollector(registerer prometheus.Registerer) *DispatchCollector {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespaceHarness,
		Subsystem: subsystemDispatch,
		Name:      "calls_total",
		Help:      "number of dispatched contract calls",
	}, []string{LabelMethod})

	reverts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespaceHarness,
		Subsystem: subsystemDispatch,
		Name:      "reverts_total",
		Help:      "number of contract calls whose changes were reverted",
	}, []string{LabelMethod})

	callDepth := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceHarness,
		Subsystem: subsystemDispatch,
		Name:      "call_depth",
		Help:      "reentrancy depth of dispatched calls",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
	})

	events := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceHarness,
		Subsystem: subsystemEvents,
		Name:      "emitted_total",
		Help:      "number of events emitted by contracts",
	})

	registerer.MustRegister(calls, reverts, callDepth, events)

	return &DispatchCollector{
		calls:     calls,
		reverts:   reverts,
		callDepth: callDepth,
		events:    events,
	}
}

func (c *DispatchCollector) CallDispatched(method string, depth int) {
	c.calls.WithLabelValues(method).Inc()
	c.callDepth.Observe(float64(depth))
}

func (c *DispatchCollector) CallReverted(method string) {
	c.reverts.WithLabelValues(method).Inc()
}

func (c *DispatchCollector) EventEmitted() {
	c.events.Inc()
}
