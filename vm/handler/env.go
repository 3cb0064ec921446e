package handler

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/types"
)

// env is the view of the router handed to contract code.
type env struct {
	r *Router
}

var _ types.Env = env{}

func (e env) Sender() common.Address {
	return e.r.ctx.Sender()
}

func (e env) Value() *uint256.Int {
	return e.r.ctx.Value()
}

func (e env) ContractAddress() common.Address {
	return e.r.top("contract address").Callee
}

func (e env) ChainID() uint64 {
	return e.r.ctx.ChainID()
}

func (e env) BlockNumber() uint64 {
	return e.r.ctx.BlockNumber()
}

func (e env) BlockTimestamp() uint64 {
	return e.r.ctx.BlockTimestamp()
}

func (e env) Load(key common.Hash) common.Hash {
	return e.r.backend.Arena.Get(e.r.top("storage load").Callee, key)
}

func (e env) Store(key common.Hash, value common.Hash) {
	e.r.backend.Arena.Set(e.r.top("storage store").Callee, key, value)
}

func (e env) Emit(event any) {
	contract := e.r.top("emit").Callee
	if err := e.r.backend.Events.Emit(contract, event); err != nil {
		panic(err)
	}
	e.r.metrics.EventEmitted()
}

func (e env) Call(target common.Address, signature string, args ...any) (any, error) {
	return e.call(target, nil, signature, args)
}

func (e env) CallWithValue(
	target common.Address,
	value *uint256.Int,
	signature string,
	args ...any,
) (any, error) {
	return e.call(target, value, signature, args)
}

// call panics on harness misuse, contract code cannot recover from it.
func (e env) call(target common.Address, value *uint256.Int, signature string, args []any) (any, error) {
	result, err := e.r.Invoke(e.r.top("call").Callee, target, value, signature, args)
	if errors.IsMisuse(err) {
		panic(err)
	}
	return result, err
}

func (e env) Balance(addr common.Address) *uint256.Int {
	return e.r.backend.Ledger.Balance(addr)
}

func (e env) Transfer(to common.Address, amount *uint256.Int) error {
	if amount == nil {
		return nil
	}
	return e.r.backend.Ledger.Transfer(e.r.top("transfer").Callee, to, amount)
}

func (e env) Depth() int {
	e.r.top("depth")
	return e.r.stack.Len() - 1
}

func (e env) CallStack() []types.CallFrame {
	return e.r.stack.Frames()
}
