package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/types"
)

// directCallLabel names the frames of Do and Query in traces.
const directCallLabel = "<direct>"

// Call is a pending call on a contract, bound to a sender and a value.
type Call[T any] struct {
	contract *Contract[T]
	from     common.Address
	value    *uint256.Int
}

// Call dispatches signature through the method table of the contract.
// Harness misuse panics; errors of the contract and insufficient balances
// are returned in the result.
func (c *Call[T]) Call(signature string, args ...any) Result {
	value, err := c.contract.vm.router.Invoke(
		c.from,
		c.contract.addr,
		c.value,
		signature,
		args)
	return c.result(value, err)
}

// Do runs fn on the contract instance inside a call frame, with the same
// rollback rules as a dispatched method.
func (c *Call[T]) Do(fn func(contract *T, env types.Env) error) Result {
	_, err := c.contract.vm.router.Execute(
		c.from,
		c.contract.addr,
		c.value,
		directCallLabel,
		func(env types.Env) (any, error) {
			return nil, fn(c.contract.instance, env)
		})
	return c.result(nil, err)
}

func (c *Call[T]) result(value any, err error) Result {
	if errors.IsMisuse(err) {
		panic(err)
	}
	return Result{
		From:  c.from,
		To:    c.contract.addr,
		Value: value,
		Err:   err,
	}
}

// Query runs fn on the contract instance inside a call frame and returns
// its value. It is the getter form of Call.Do.
func Query[T, R any](c *Call[T], fn func(contract *T, env types.Env) R) R {
	var out R
	c.Do(func(contract *T, env types.Env) error {
		out = fn(contract, env)
		return nil
	}).Unwrap()
	return out
}
