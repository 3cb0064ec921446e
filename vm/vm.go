// Package vm runs smart contracts written in Go against an in-memory host
// environment, so that they can be unit tested without a chain. Each test
// gets its own VM; nothing is shared between VMs.
package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/environment"
	"github.com/motsu-go/motsu/vm/handler"
	"github.com/motsu-go/motsu/vm/tracing"
	"github.com/motsu-go/motsu/vm/types"
)

// VM is a single-threaded contract host.
type VM struct {
	ctx       *environment.VMContext
	stack     *environment.CallStack
	backend   handler.Backend
	router    *handler.Router
	allocator *address.Allocator
	logger    zerolog.Logger

	accounts map[common.Address]*Account
}

func New(opts ...Option) *VM {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.With().Str("component", "motsu").Logger()

	stack := environment.NewCallStack()
	ctx := environment.NewVMContext(cfg.blockInfo, stack, logger)
	backend := handler.NewBackend()

	tracers := append([]tracing.Tracer{tracing.NewLogTracer(logger)}, cfg.tracers...)
	router := handler.NewRouter(ctx, stack, backend, logger, cfg.metrics, tracing.Multi(tracers...))

	logger.Debug().
		Uint64("chain_id", cfg.blockInfo.ChainID).
		Str("deployer", address.NameOf(cfg.deployer)).
		Msg("vm created")

	return &VM{
		ctx:       ctx,
		stack:     stack,
		backend:   backend,
		router:    router,
		allocator: address.NewAllocator(cfg.deployer),
		logger:    logger,
		accounts:  make(map[common.Address]*Account),
	}
}

// Context returns the block environment of the VM.
func (v *VM) Context() *environment.VMContext {
	return v.ctx
}

// Fund mints amount to addr.
func (v *VM) Fund(addr common.Address, amount *uint256.Int) {
	v.backend.Ledger.Fund(addr, amount)
	v.commitIfIdle()
}

// Debit burns amount from addr. A debit beyond the balance from test code is
// fatal to the test.
func (v *VM) Debit(addr common.Address, amount *uint256.Int) {
	if err := v.backend.Ledger.Debit(addr, amount); err != nil {
		panic(err)
	}
	v.commitIfIdle()
}

// Balance returns the native balance of addr.
func (v *VM) Balance(addr common.Address) *uint256.Int {
	return v.backend.Ledger.Balance(addr)
}

// TotalSupply returns the sum of all native balances.
func (v *VM) TotalSupply() *uint256.Int {
	return v.backend.Ledger.Total()
}

// Account returns the externally owned account derived from tag. The same
// tag always yields the same account.
func (v *VM) Account(tag string) *Account {
	addr := address.AccountFromTag(tag)
	if a, ok := v.accounts[addr]; ok {
		return a
	}
	v.backend.Ledger.SetKey(addr, address.KeyFromTag(tag))
	a := &Account{vm: v, addr: addr, tag: tag}
	v.accounts[addr] = a
	return a
}

// CallStack returns the active call frames, outermost first.
func (v *VM) CallStack() []types.CallFrame {
	return v.stack.Frames()
}

// Storage returns a copy of the storage words of the contract at addr.
func (v *VM) Storage(addr common.Address) map[common.Hash]common.Hash {
	return v.backend.Arena.Dump(addr)
}

func (v *VM) commitIfIdle() {
	if v.stack.Idle() {
		v.backend.Journal.Commit()
	}
}

// Close checks that the VM was left in its terminal state: no active call
// frames and no uncommitted changes.
func (v *VM) Close() error {
	var err error
	if !v.stack.Idle() {
		err = multierr.Append(err, fmt.Errorf("%d call frames still active: %v", v.stack.Len(), v.stack.Frames()))
	}
	if n := v.backend.Journal.Len(); n > 0 {
		err = multierr.Append(err, fmt.Errorf("%d uncommitted state changes", n))
	}
	if err != nil {
		v.logger.Error().Err(err).Msg("vm closed in a non terminal state")
	}
	return err
}
