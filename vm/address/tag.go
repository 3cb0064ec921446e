// Package address derives deterministic addresses from human readable tags
// and remembers which tag produced which address, so that diagnostics can
// print "alice" instead of a hex string.
package address

import (
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
)

const keyCacheSize = 1024

var (
	// names maps derived addresses back to the tag they were derived from.
	names sync.Map // map[common.Address]string

	keys *lru.Cache[string, *ecdsa.PrivateKey]
)

func init() {
	var err error
	keys, err = lru.New[string, *ecdsa.PrivateKey](keyCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create key cache: %v", err))
	}
}

// FromTag returns the address of a plain (key-less) tag: the first 20 bytes
// of keccak256(tag). The derivation must never change, tests assert on the
// literal values of the reserved tags.
func FromTag(tag string) common.Address {
	addr := common.BytesToAddress(crypto.Keccak256([]byte(tag))[:common.AddressLength])
	register(addr, tag)
	return addr
}

// KeyFromTag returns the secp256k1 private key keccak256(tag). Keys are
// cached, the derivation of the public key is comparatively expensive.
func KeyFromTag(tag string) *ecdsa.PrivateKey {
	if key, ok := keys.Get(tag); ok {
		return key
	}

	key, err := crypto.ToECDSA(crypto.Keccak256([]byte(tag)))
	if err != nil {
		// keccak256 output outside of the curve order, practically unreachable
		panic(fmt.Sprintf("tag %q does not derive a valid secp256k1 key: %v", tag, err))
	}
	keys.Add(tag, key)
	register(crypto.PubkeyToAddress(key.PublicKey), tag)
	return key
}

// AccountFromTag returns the address of the account whose signing key is
// derived from tag.
func AccountFromTag(tag string) common.Address {
	return crypto.PubkeyToAddress(KeyFromTag(tag).PublicKey)
}

// register names addr with tag for diagnostics, it is a no-op if addr was
// already named. Only derivations register, so a name is always the tag the
// address is derived from.
func register(addr common.Address, tag string) {
	names.LoadOrStore(addr, tag)
}

// NameOf returns the tag addr was derived from, or its lower case hex form.
func NameOf(addr common.Address) string {
	if tag, ok := names.Load(addr); ok {
		return tag.(string)
	}
	return Hex(addr)
}

// Hex renders addr as lower case 0x-prefixed hex, without checksum casing.
func Hex(addr common.Address) string {
	return hexutil.Encode(addr.Bytes())
}
