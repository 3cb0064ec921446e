package metrics

type NoopCollector struct{}

var _ Collector = NoopCollector{}

func NewNoopCollector() NoopCollector {
	return NoopCollector{}
}

func (NoopCollector) CallDispatched(string, int) {}
func (NoopCollector) CallReverted(string)        {}
func (NoopCollector) EventEmitted()              {}
