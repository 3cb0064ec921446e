package state

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/motsu-go/motsu/vm/errors"
)

// Ledger keeps the native token balance of every address, contracts
// included, and the signing keys of accounts that have one.
type Ledger struct {
	journal  *Journal
	balances map[common.Address]*uint256.Int
	keys     map[common.Address]*ecdsa.PrivateKey
}

func NewLedger(journal *Journal) *Ledger {
	return &Ledger{
		journal:  journal,
		balances: make(map[common.Address]*uint256.Int),
		keys:     make(map[common.Address]*ecdsa.PrivateKey),
	}
}

// Balance returns a copy of the balance of addr.
func (l *Ledger) Balance(addr common.Address) *uint256.Int {
	if bal, ok := l.balances[addr]; ok {
		return bal.Clone()
	}
	return new(uint256.Int)
}

// Fund mints amount to addr. Tests assume the funds come from out of band.
func (l *Ledger) Fund(addr common.Address, amount *uint256.Int) {
	l.Credit(addr, amount)
}

// Credit adds amount to the balance of addr.
func (l *Ledger) Credit(addr common.Address, amount *uint256.Int) {
	l.set(addr, new(uint256.Int).Add(l.Balance(addr), amount))
}

// Debit subtracts amount from the balance of addr, it fails with an
// InsufficientBalanceError if the balance is smaller than amount.
func (l *Ledger) Debit(addr common.Address, amount *uint256.Int) error {
	bal := l.Balance(addr)
	if bal.Lt(amount) {
		return errors.NewInsufficientBalanceError(addr, bal, amount)
	}
	l.set(addr, bal.Sub(bal, amount))
	return nil
}

// Transfer moves amount from one address to another. Nothing changes if
// the debit fails.
func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := l.Debit(from, amount); err != nil {
		return err
	}
	l.Credit(to, amount)
	return nil
}

func (l *Ledger) set(addr common.Address, bal *uint256.Int) {
	prev, existed := l.balances[addr]
	l.balances[addr] = bal

	l.journal.Append(RevertFunc(func() {
		if existed {
			l.balances[addr] = prev
			return
		}
		delete(l.balances, addr)
	}))
}

// Total returns the sum of all balances.
func (l *Ledger) Total() *uint256.Int {
	total := new(uint256.Int)
	for _, bal := range l.balances {
		total.Add(total, bal)
	}
	return total
}

// Addresses returns every address that ever held a balance, sorted.
func (l *Ledger) Addresses() []common.Address {
	addrs := maps.Keys(l.balances)
	slices.SortFunc(addrs, func(x, y common.Address) int {
		return bytes.Compare(x[:], y[:])
	})
	return addrs
}

// SetKey attaches signing key material to addr.
func (l *Ledger) SetKey(addr common.Address, key *ecdsa.PrivateKey) {
	l.keys[addr] = key
}

// HasKey returns true if addr was created with key material.
func (l *Ledger) HasKey(addr common.Address) bool {
	_, ok := l.keys[addr]
	return ok
}

// Sign produces an EIP-191 personal message signature [R || S || V] of
// message by addr.
func (l *Ledger) Sign(addr common.Address, message []byte) ([]byte, error) {
	key, ok := l.keys[addr]
	if !ok {
		return nil, errors.NewMissingKeyMaterialError(addr)
	}
	return crypto.Sign(accounts.TextHash(message), key)
}
