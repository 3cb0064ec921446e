package address

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeployerTag is the tag of the virtual account that "deploys" contracts
// created without an explicit tag or address.
const DeployerTag = "deployer"

// Allocator hands out fresh deterministic contract addresses, the same way
// CREATE derives them from the deployer and its nonce.
type Allocator struct {
	deployer common.Address
	nonce    uint64
}

// NewAllocator returns an allocator that derives addresses from deployer.
func NewAllocator(deployer common.Address) *Allocator {
	return &Allocator{deployer: deployer}
}

// NewDefaultAllocator returns an allocator for the reserved deployer tag.
func NewDefaultAllocator() *Allocator {
	return NewAllocator(FromTag(DeployerTag))
}

// Allocate returns the next address. The sequence only depends on the
// deployer and on the number of previous allocations.
func (a *Allocator) Allocate() common.Address {
	addr := crypto.CreateAddress(a.deployer, a.nonce)
	a.nonce++
	return addr
}

// Nonce returns the number of addresses allocated so far.
func (a *Allocator) Nonce() uint64 {
	return a.nonce
}
