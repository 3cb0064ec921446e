package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Account is an externally owned account with key material, able to sign
// messages.
type Account struct {
	vm   *VM
	addr common.Address
	tag  string
}

func (a *Account) Address() common.Address {
	return a.addr
}

// Tag returns the tag the account was derived from.
func (a *Account) Tag() string {
	return a.tag
}

func (a *Account) Fund(amount *uint256.Int) {
	a.vm.Fund(a.addr, amount)
}

func (a *Account) Balance() *uint256.Int {
	return a.vm.Balance(a.addr)
}

func (a *Account) Signer() *Signer {
	return &Signer{vm: a.vm, addr: a.addr}
}

func (a *Account) String() string {
	return a.tag
}

// Signer signs messages with the key of an account.
type Signer struct {
	vm   *VM
	addr common.Address
}

func (s *Signer) Address() common.Address {
	return s.addr
}

// SignMessage returns the 65 byte [R || S || V] signature of the EIP-191
// personal message hash of msg.
func (s *Signer) SignMessage(msg []byte) ([]byte, error) {
	return s.vm.backend.Ledger.Sign(s.addr, msg)
}
