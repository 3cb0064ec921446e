package errors

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/address"
)

// InsufficientBalanceError is raised by the account ledger when a debit
// exceeds the balance. It is distinct from any balance error a contract
// defines for its own bookkeeping.
type InsufficientBalanceError struct {
	Address common.Address
	Balance *uint256.Int
	Needed  *uint256.Int
}

func NewInsufficientBalanceError(
	addr common.Address,
	balance *uint256.Int,
	needed *uint256.Int,
) *InsufficientBalanceError {
	return &InsufficientBalanceError{
		Address: addr,
		Balance: balance.Clone(),
		Needed:  needed.Clone(),
	}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"%s insufficient balance for %s: balance %s, needed %s",
		e.Code(),
		address.NameOf(e.Address),
		e.Balance.ToBig().String(),
		e.Needed.ToBig().String())
}

func (e *InsufficientBalanceError) Code() ErrorCode {
	return ErrCodeInsufficientBalance
}

func IsInsufficientBalanceError(err error) bool {
	return HasErrorCode(err, ErrCodeInsufficientBalance)
}
