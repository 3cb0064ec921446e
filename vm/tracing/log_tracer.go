package tracing

import (
	"github.com/rs/zerolog"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/types"
)

// LogTracer logs entered frames at debug level. Frames that return
// successfully are logged at trace level, reverted ones at debug level.
type LogTracer struct {
	logger zerolog.Logger
}

var _ Tracer = LogTracer{}

func NewLogTracer(logger zerolog.Logger) LogTracer {
	return LogTracer{
		logger: logger.With().Str("module", "call-tracer").Logger(),
	}
}

func (t LogTracer) OnEnter(frame types.CallFrame) {
	t.logger.Debug().
		Str("caller", address.NameOf(frame.Caller)).
		Str("callee", address.NameOf(frame.Callee)).
		Str("method", frame.Method).
		Str("value", frame.Value.ToBig().String()).
		Uint32("depth", frame.Depth).
		Msg("enter call")
}

func (t LogTracer) OnExit(frame types.CallFrame, err error) {
	event := t.logger.Trace()
	if err != nil {
		event = t.logger.Debug().Err(err)
	}
	event.
		Str("callee", address.NameOf(frame.Callee)).
		Str("method", frame.Method).
		Uint32("depth", frame.Depth).
		Bool("reverted", err != nil).
		Msg("exit call")
}
