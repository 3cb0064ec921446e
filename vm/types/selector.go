package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector identifies a method, it is the first four bytes of the keccak256
// hash of the canonical method signature, e.g. "transfer(address,uint256)".
type Selector [4]byte

// SelectorOf computes the selector of signature.
func SelectorOf(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

func (s Selector) String() string {
	return hexutil.Encode(s[:])
}
