package environment

import (
	"github.com/ef-ds/deque"

	"github.com/motsu-go/motsu/vm/types"
)

// CallStack is the stack of active call frames. It is idle when empty.
type CallStack struct {
	frames *deque.Deque
}

func NewCallStack() *CallStack {
	return &CallStack{frames: deque.New()}
}

// Push enters a frame. Its depth is set to the number of frames below it.
func (s *CallStack) Push(frame types.CallFrame) types.CallFrame {
	frame.Depth = uint32(s.frames.Len())
	s.frames.PushBack(frame)
	return frame
}

// Pop leaves the innermost frame.
func (s *CallStack) Pop() (types.CallFrame, bool) {
	v, ok := s.frames.PopBack()
	if !ok {
		return types.CallFrame{}, false
	}
	return v.(types.CallFrame), true
}

// Top returns the innermost frame.
func (s *CallStack) Top() (types.CallFrame, bool) {
	v, ok := s.frames.Back()
	if !ok {
		return types.CallFrame{}, false
	}
	return v.(types.CallFrame), true
}

func (s *CallStack) Len() int {
	return s.frames.Len()
}

func (s *CallStack) Idle() bool {
	return s.frames.Len() == 0
}

// Frames returns a copy of the active frames, outermost first.
func (s *CallStack) Frames() []types.CallFrame {
	n := s.frames.Len()
	out := make([]types.CallFrame, 0, n)
	// rotate once through the deque to read it in order
	for i := 0; i < n; i++ {
		v, _ := s.frames.PopFront()
		out = append(out, v.(types.CallFrame))
		s.frames.PushBack(v)
	}
	return out
}
