package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/events"
	"github.com/motsu-go/motsu/vm/storage"
	"github.com/motsu-go/motsu/vm/types"
)

// Contract is a handle on a contract of type T deployed on a VM. *T must
// implement types.Contract.
type Contract[T any] struct {
	vm       *VM
	addr     common.Address
	instance *T
}

// NewContract deploys a fresh T at the next allocated address.
func NewContract[T any](v *VM) *Contract[T] {
	return ContractAt[T](v, v.allocator.Allocate())
}

// ContractFromTag deploys T at the address derived from tag, or returns a
// handle on the T already deployed there.
func ContractFromTag[T any](v *VM, tag string) *Contract[T] {
	return ContractAt[T](v, address.FromTag(tag))
}

// ContractAt deploys T at addr, or returns a handle on the T already
// deployed there. It panics if addr holds a contract of another type.
func ContractAt[T any](v *VM, addr common.Address) *Contract[T] {
	c := &Contract[T]{}
	if err := c.deploy(v, addr); err != nil {
		panic(err)
	}
	return c
}

func (c *Contract[T]) deploy(v *VM, addr common.Address) error {
	instance := new(T)
	contract, ok := any(instance).(types.Contract)
	if !ok {
		return errors.NewInvalidArgumentErrorf(
			"deploy",
			"%T does not implement types.Contract",
			instance)
	}

	if _, err := storage.Bind(instance); err != nil {
		return err
	}

	deployed, err := v.router.Deploy(addr, contract)
	if err != nil {
		return err
	}

	c.vm = v
	c.addr = addr
	c.instance = any(deployed).(*T)
	return nil
}

func (c *Contract[T]) Address() common.Address {
	return c.addr
}

// Balance returns the native balance of the contract.
func (c *Contract[T]) Balance() *uint256.Int {
	return c.vm.Balance(c.addr)
}

// Instance returns the deployed contract value. Its storage cells can only
// be read inside a call, see Call.Do.
func (c *Contract[T]) Instance() *T {
	return c.instance
}

// Sender starts a call from the given address.
func (c *Contract[T]) Sender(from common.Address) *Call[T] {
	return &Call[T]{contract: c, from: from, value: new(uint256.Int)}
}

// SenderAndValue starts a call from the given address carrying value. A nil
// value is zero.
func (c *Contract[T]) SenderAndValue(from common.Address, value *uint256.Int) *Call[T] {
	if value == nil {
		return c.Sender(from)
	}
	return &Call[T]{contract: c, from: from, value: value.Clone()}
}

// Events returns the events emitted by the contract, oldest first.
func (c *Contract[T]) Events() []events.Record {
	return c.vm.backend.Events.Records(c.addr)
}

// Emitted reports whether the contract emitted event.
func (c *Contract[T]) Emitted(event any) bool {
	ok, err := c.vm.backend.Events.Emitted(c.addr, event)
	if err != nil {
		panic(err)
	}
	return ok
}

// AssertEmitted panics unless the contract emitted event.
func (c *Contract[T]) AssertEmitted(event any) {
	c.vm.backend.Events.AssertEmitted(c.addr, event)
}

func (c *Contract[T]) String() string {
	return fmt.Sprintf("%T@%s", c.instance, address.NameOf(c.addr))
}
