package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/address"
)

// CallFrame describes one active dispatched call.
type CallFrame struct {
	Caller common.Address
	Callee common.Address
	Value  *uint256.Int
	// Method is the signature of the dispatched method, empty for direct
	// instance access.
	Method string
	// Depth is the number of frames below this one.
	Depth uint32
}

func (f CallFrame) String() string {
	return fmt.Sprintf(
		"%s -> %s.%s value=%s depth=%d",
		address.NameOf(f.Caller),
		address.NameOf(f.Callee),
		f.Method,
		f.Value.ToBig().String(),
		f.Depth)
}
