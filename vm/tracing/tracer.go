package tracing

import (
	"github.com/motsu-go/motsu/vm/types"
)

// Tracer observes call frames as they are entered and left. OnExit is
// called with the error the frame returned, nil on success. Frames nest:
// every OnEnter is matched by an OnExit before the enclosing frame exits.
type Tracer interface {
	OnEnter(frame types.CallFrame)
	OnExit(frame types.CallFrame, err error)
}

type NoopTracer struct{}

var _ Tracer = NoopTracer{}

func (NoopTracer) OnEnter(types.CallFrame)        {}
func (NoopTracer) OnExit(types.CallFrame, error) {}

type multiTracer []Tracer

// Multi fans frame notifications out to tracers in order.
func Multi(tracers ...Tracer) Tracer {
	return multiTracer(tracers)
}

func (m multiTracer) OnEnter(frame types.CallFrame) {
	for _, t := range m {
		t.OnEnter(frame)
	}
}

func (m multiTracer) OnExit(frame types.CallFrame, err error) {
	for _, t := range m {
		t.OnExit(frame, err)
	}
}

// Recorder keeps every frame it was notified about.
type Recorder struct {
	Entered []types.CallFrame
	Exited  []types.CallFrame
	Errors  []error
}

var _ Tracer = (*Recorder)(nil)

func (r *Recorder) OnEnter(frame types.CallFrame) {
	r.Entered = append(r.Entered, frame)
}

func (r *Recorder) OnExit(frame types.CallFrame, err error) {
	r.Exited = append(r.Exited, frame)
	r.Errors = append(r.Errors, err)
}

// MaxDepth returns the deepest frame entered so far.
func (r *Recorder) MaxDepth() uint32 {
	max := uint32(0)
	for _, f := range r.Entered {
		if f.Depth > max {
			max = f.Depth
		}
	}
	return max
}
