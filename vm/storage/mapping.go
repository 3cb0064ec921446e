package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Mapping is a map from keys to cells of type V. The cell for key k lives at
// keccak256(k . slot), with k left padded to 32 bytes for value types and
// taken as is for strings and byte slices. Mappings nest.
type Mapping[V any, PV interface {
	*V
	binder
}] struct {
	slotRef
}

// Get returns the cell stored under key. Supported key types are
// common.Address, common.Hash, *uint256.Int, uint64, string and []byte.
func (m *Mapping[V, PV]) Get(key any) PV {
	cell := PV(new(V))
	cell.bindSlot(MappingSlot(m.slot, key))
	return cell
}

// MappingSlot computes the slot of key in a mapping bound to base.
func MappingSlot(base common.Hash, key any) common.Hash {
	var encoded []byte
	switch k := key.(type) {
	case common.Address:
		encoded = common.LeftPadBytes(k.Bytes(), common.HashLength)
	case common.Hash:
		encoded = k.Bytes()
	case *uint256.Int:
		word := k.Bytes32()
		encoded = word[:]
	case uint64:
		encoded = common.LeftPadBytes(new(uint256.Int).SetUint64(k).Bytes(), common.HashLength)
	case string:
		encoded = []byte(k)
	case []byte:
		encoded = k
	default:
		panic(fmt.Sprintf("unsupported mapping key type %T", key))
	}
	return crypto.Keccak256Hash(encoded, base.Bytes())
}
