// Package storage provides typed views over the 32 byte storage words of a
// contract. A contract declares its persistent state as a struct of cells;
// Bind assigns each cell a slot and every access goes through the host
// environment of the executing call.
package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Storage is the word addressed store of the executing contract.
// types.Env satisfies it.
type Storage interface {
	Load(key common.Hash) common.Hash
	Store(key common.Hash, value common.Hash)
}

// binder is implemented by every cell.
type binder interface {
	bindSlot(slot common.Hash)
}

// slotRef is the location of a cell.
type slotRef struct {
	slot common.Hash
}

func (s *slotRef) bindSlot(slot common.Hash) {
	s.slot = slot
}

// Slot returns the storage key the cell is bound to.
func (s *slotRef) Slot() common.Hash {
	return s.slot
}

// U256 is a 256 bit unsigned integer cell.
type U256 struct {
	slotRef
}

func (c *U256) Get(st Storage) *uint256.Int {
	word := st.Load(c.slot)
	return new(uint256.Int).SetBytes32(word[:])
}

func (c *U256) Set(st Storage, v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	st.Store(c.slot, v.Bytes32())
}

// Address is an address cell.
type Address struct {
	slotRef
}

func (c *Address) Get(st Storage) common.Address {
	return common.BytesToAddress(st.Load(c.slot).Bytes())
}

func (c *Address) Set(st Storage, addr common.Address) {
	st.Store(c.slot, common.BytesToHash(addr.Bytes()))
}

// Bool is a boolean cell.
type Bool struct {
	slotRef
}

func (c *Bool) Get(st Storage) bool {
	return st.Load(c.slot) != (common.Hash{})
}

func (c *Bool) Set(st Storage, v bool) {
	var word common.Hash
	if v {
		word[common.HashLength-1] = 1
	}
	st.Store(c.slot, word)
}

// Uint64 is a 64 bit unsigned integer cell.
type Uint64 struct {
	slotRef
}

func (c *Uint64) Get(st Storage) uint64 {
	word := st.Load(c.slot)
	return binary.BigEndian.Uint64(word[common.HashLength-8:])
}

func (c *Uint64) Set(st Storage, v uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[common.HashLength-8:], v)
	st.Store(c.slot, word)
}

// Word is a raw 32 byte cell.
type Word struct {
	slotRef
}

func (c *Word) Get(st Storage) common.Hash {
	return st.Load(c.slot)
}

func (c *Word) Set(st Storage, v common.Hash) {
	st.Store(c.slot, v)
}
