package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Arena emulates persistent contract storage: every contract address owns
// a map of 32 byte slots. The arena never interprets slot contents.
type Arena struct {
	journal *Journal
	slots   map[common.Address]map[common.Hash]common.Hash
}

func NewArena(journal *Journal) *Arena {
	return &Arena{
		journal: journal,
		slots:   make(map[common.Address]map[common.Hash]common.Hash),
	}
}

// Get returns the value of key in the storage of contract. Unset slots read
// as zero.
func (a *Arena) Get(contract common.Address, key common.Hash) common.Hash {
	return a.slots[contract][key]
}

// Set stores value under key in the storage of contract.
func (a *Arena) Set(contract common.Address, key common.Hash, value common.Hash) {
	slots, ok := a.slots[contract]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		a.slots[contract] = slots
	}

	prev, existed := slots[key]
	slots[key] = value

	a.journal.Append(RevertFunc(func() {
		if existed {
			slots[key] = prev
			return
		}
		delete(slots, key)
	}))
}

// Slots returns the keys written for contract, sorted.
func (a *Arena) Slots(contract common.Address) []common.Hash {
	keys := maps.Keys(a.slots[contract])
	slices.SortFunc(keys, func(x, y common.Hash) int {
		return bytes.Compare(x[:], y[:])
	})
	return keys
}

// Dump returns a copy of the storage of contract.
func (a *Arena) Dump(contract common.Address) map[common.Hash]common.Hash {
	return maps.Clone(a.slots[contract])
}
