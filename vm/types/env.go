package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Env is the host environment visible to contract code. Every observation
// is relative to the innermost active call frame: Sender and Value are the
// caller and value of that frame, Load and Store target the storage of its
// callee.
type Env interface {
	// Sender returns the immediate caller of the executing contract.
	Sender() common.Address
	// Value returns the native value attached to the current call.
	Value() *uint256.Int
	// ContractAddress returns the address of the executing contract.
	ContractAddress() common.Address

	ChainID() uint64
	BlockNumber() uint64
	BlockTimestamp() uint64

	Load(key common.Hash) common.Hash
	Store(key common.Hash, value common.Hash)

	// Emit appends event to the log of the executing contract.
	Emit(event any)

	// Call dispatches signature on the contract deployed at target, with the
	// executing contract as the caller. Harness misuse, such as an unknown
	// method or value sent to a non-payable method, panics.
	Call(target common.Address, signature string, args ...any) (any, error)
	// CallWithValue is Call with value taken from the balance of the
	// executing contract.
	CallWithValue(target common.Address, value *uint256.Int, signature string, args ...any) (any, error)

	// Balance returns the native balance of addr.
	Balance(addr common.Address) *uint256.Int
	// Transfer sends amount of the executing contract's balance to addr.
	Transfer(to common.Address, amount *uint256.Int) error

	// Depth returns the reentrancy depth, zero for a call made by a test.
	Depth() int
	// CallStack returns the active frames, outermost first.
	CallStack() []CallFrame
}
