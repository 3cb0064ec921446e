package handler

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/environment"
	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/events"
	"github.com/motsu-go/motsu/vm/metrics"
	"github.com/motsu-go/motsu/vm/state"
	"github.com/motsu-go/motsu/vm/tracing"
	"github.com/motsu-go/motsu/vm/types"
)

// Backend is the mutable state a router dispatches against. All of it is
// journaled by Journal.
type Backend struct {
	Journal *state.Journal
	Ledger  *state.Ledger
	Arena   *state.Arena
	Events  *events.Log
}

// NewBackend creates empty state sharing a fresh journal.
func NewBackend() Backend {
	journal := state.NewJournal()
	return Backend{
		Journal: journal,
		Ledger:  state.NewLedger(journal),
		Arena:   state.NewArena(journal),
		Events:  events.NewLog(journal),
	}
}

type deployment struct {
	address  common.Address
	typ      reflect.Type
	typeName string
	instance types.Contract
	methods  map[types.Selector]types.Method
}

// Router dispatches calls to the contracts deployed on a VM. Every call
// runs in its own frame: value is moved before the frame is pushed, and a
// frame that returns an error (or panics) has all of its changes to
// balances, storage and events rolled back.
type Router struct {
	ctx     *environment.VMContext
	stack   *environment.CallStack
	backend Backend

	contracts map[common.Address]*deployment

	logger  zerolog.Logger
	metrics metrics.Collector
	tracer  tracing.Tracer
}

func NewRouter(
	ctx *environment.VMContext,
	stack *environment.CallStack,
	backend Backend,
	logger zerolog.Logger,
	collector metrics.Collector,
	tracer tracing.Tracer,
) *Router {
	return &Router{
		ctx:       ctx,
		stack:     stack,
		backend:   backend,
		contracts: make(map[common.Address]*deployment),
		logger:    logger.With().Str("module", "router").Logger(),
		metrics:   collector,
		tracer:    tracer,
	}
}

func typeName(instance any) string {
	t := reflect.TypeOf(instance)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Deploy registers instance at addr. Deploying the same contract type at an
// address twice returns the instance deployed first; deploying another type
// fails with a ContractTypeMismatchError.
func (r *Router) Deploy(addr common.Address, instance types.Contract) (types.Contract, error) {
	name := typeName(instance)
	if existing, ok := r.contracts[addr]; ok {
		if existing.typ != reflect.TypeOf(instance) {
			return nil, errors.NewContractTypeMismatchError(addr, existing.typeName, name)
		}
		return existing.instance, nil
	}

	methods, err := types.MethodTable(instance.Methods())
	if err != nil {
		return nil, errors.NewInvalidMethodTableError(name, err)
	}

	r.contracts[addr] = &deployment{
		address:  addr,
		typ:      reflect.TypeOf(instance),
		typeName: name,
		instance: instance,
		methods:  methods,
	}

	r.logger.Debug().
		Str("contract", address.NameOf(addr)).
		Str("type", name).
		Int("methods", len(methods)).
		Msg("contract deployed")

	return instance, nil
}

// Deployed returns the contract at addr.
func (r *Router) Deployed(addr common.Address) (types.Contract, bool) {
	d, ok := r.contracts[addr]
	if !ok {
		return nil, false
	}
	return d.instance, true
}

// Invoke dispatches signature on the contract at target on behalf of caller,
// attaching value.
func (r *Router) Invoke(
	caller common.Address,
	target common.Address,
	value *uint256.Int,
	signature string,
	args []any,
) (any, error) {
	if value == nil {
		value = new(uint256.Int)
	}

	d, ok := r.contracts[target]
	if !ok {
		return nil, errors.NewUnknownContractError(target)
	}
	method, ok := d.methods[types.SelectorOf(signature)]
	if !ok {
		return nil, errors.NewUnknownMethodError(target, signature)
	}
	if !value.IsZero() && !method.Payable {
		return nil, errors.NewNonPayableCallWithValueError(target, method.Name(), value)
	}

	return r.execute(caller, target, value, method.Name(), func(env types.Env) (any, error) {
		return method.Handler(env, args)
	})
}

// Execute runs body in a frame of the contract at target, the same way a
// non-payable method of the contract would run. label names the frame in
// traces.
func (r *Router) Execute(
	caller common.Address,
	target common.Address,
	value *uint256.Int,
	label string,
	body func(types.Env) (any, error),
) (any, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	if _, ok := r.contracts[target]; !ok {
		return nil, errors.NewUnknownContractError(target)
	}
	// value only enters a contract through a payable method
	if !value.IsZero() {
		return nil, errors.NewNonPayableCallWithValueError(target, label, value)
	}
	return r.execute(caller, target, value, label, body)
}

func (r *Router) execute(
	caller common.Address,
	callee common.Address,
	value *uint256.Int,
	method string,
	body func(types.Env) (any, error),
) (result any, err error) {
	snapshot := r.backend.Journal.Snapshot()

	if err := r.backend.Ledger.Transfer(caller, callee, value); err != nil {
		r.backend.Journal.RevertTo(snapshot)
		r.metrics.CallReverted(method)
		r.commitIfIdle()
		return nil, err
	}

	frame := r.stack.Push(types.CallFrame{
		Caller: caller,
		Callee: callee,
		Value:  value.Clone(),
		Method: method,
	})
	r.tracer.OnEnter(frame)

	completed := false
	defer func() {
		if completed {
			return
		}
		// a nil recovery is a runtime.Goexit, e.g. a failed require inside
		// the body, which must keep unwinding the test goroutine
		rec := recover()
		r.leave(frame, snapshot, fmt.Errorf("call aborted: %v", rec))
		if rec != nil {
			panic(rec)
		}
	}()

	result, err = body(env{r})
	completed = true
	r.leave(frame, snapshot, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// leave pops frame, rolling its changes back if it failed.
func (r *Router) leave(frame types.CallFrame, snapshot int, err error) {
	if err != nil {
		r.backend.Journal.RevertTo(snapshot)
		r.metrics.CallReverted(frame.Method)
		r.logger.Debug().
			Err(err).
			Str("contract", address.NameOf(frame.Callee)).
			Str("method", frame.Method).
			Uint32("depth", frame.Depth).
			Msg("call reverted")
	}

	r.stack.Pop()
	r.tracer.OnExit(frame, err)
	r.metrics.CallDispatched(frame.Method, int(frame.Depth))
	r.commitIfIdle()
}

func (r *Router) commitIfIdle() {
	if r.stack.Idle() {
		r.backend.Journal.Commit()
	}
}

// Env returns the host environment of the innermost frame.
func (r *Router) Env() types.Env {
	return env{r}
}

func (r *Router) top(operation string) types.CallFrame {
	return r.ctx.Frame(operation)
}
