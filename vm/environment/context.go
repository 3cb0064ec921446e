package environment

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/types"
)

// VMContext holds the block environment of a VM and exposes the caller and
// value of the innermost call frame.
type VMContext struct {
	params BlockInfoParams
	stack  *CallStack
	logger zerolog.Logger
}

func NewVMContext(
	params BlockInfoParams,
	stack *CallStack,
	logger zerolog.Logger,
) *VMContext {
	return &VMContext{
		params: params,
		stack:  stack,
		logger: logger.With().Str("module", "vm-context").Logger(),
	}
}

func (c *VMContext) ChainID() uint64 {
	return c.params.ChainID
}

func (c *VMContext) BlockNumber() uint64 {
	return c.params.BlockNumber
}

func (c *VMContext) BlockTimestamp() uint64 {
	return c.params.BlockTimestamp
}

func (c *VMContext) SetChainID(id uint64) {
	c.logger.Debug().Uint64("chain_id", id).Msg("chain id overridden")
	c.params.ChainID = id
}

func (c *VMContext) SetBlockNumber(number uint64) {
	c.logger.Debug().Uint64("block_number", number).Msg("block number overridden")
	c.params.BlockNumber = number
}

func (c *VMContext) SetBlockTimestamp(timestamp uint64) {
	c.logger.Debug().Uint64("block_timestamp", timestamp).Msg("block timestamp overridden")
	c.params.BlockTimestamp = timestamp
}

// Params returns the current block environment.
func (c *VMContext) Params() BlockInfoParams {
	return c.params
}

// Frame returns the innermost call frame. It panics outside of a call.
func (c *VMContext) Frame(operation string) types.CallFrame {
	frame, ok := c.stack.Top()
	if !ok {
		panic(errors.NewNoActiveFrameError(operation))
	}
	return frame
}

// Sender returns the caller of the innermost frame.
func (c *VMContext) Sender() common.Address {
	return c.Frame("msg sender").Caller
}

// Value returns the value attached to the innermost frame.
func (c *VMContext) Value() *uint256.Int {
	return c.Frame("msg value").Value.Clone()
}
