package vm_test

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/motsu-go/motsu/utils/unittest"
	"github.com/motsu-go/motsu/vm"
	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/storage"
	"github.com/motsu-go/motsu/vm/tracing"
	"github.com/motsu-go/motsu/vm/types"
)

var errNegative = fmt.Errorf("counter would become negative")

type Counter struct {
	Value storage.U256
	Owner storage.Address
}

func (c *Counter) Methods() []types.Method {
	return []types.Method{
		types.View0("value()", func(env types.Env) *uint256.Int {
			return c.Value.Get(env)
		}),
		types.Action1("increment(uint256)", func(env types.Env, by *uint256.Int) error {
			c.Value.Set(env, new(uint256.Int).Add(c.Value.Get(env), by))
			return nil
		}),
		types.Action1("decrement(uint256)", func(env types.Env, by *uint256.Int) error {
			current := c.Value.Get(env)
			if current.Lt(by) {
				return errNegative
			}
			c.Value.Set(env, new(uint256.Int).Sub(current, by))
			return nil
		}),
		types.View0("chainId()", func(env types.Env) uint64 {
			return env.ChainID()
		}),
	}
}

type Other struct {
	Flag storage.Bool
}

func (o *Other) Methods() []types.Method {
	return nil
}

type NotAContract struct{}

func TestContract(t *testing.T) {
	t.Run("calls and queries", func(t *testing.T) {
		v := vm.New(vm.WithLogger(unittest.Logger()))
		alice := v.Account("alice").Address()
		counter := vm.ContractFromTag[Counter](v, "counter")

		counter.Sender(alice).Call("increment(uint256)", uint256.NewInt(3)).Unwrap()

		value := vm.Get[*uint256.Int](counter.Sender(alice).Call("value()"))
		require.Equal(t, uint256.NewInt(3), value)

		direct := vm.Query(counter.Sender(alice), func(c *Counter, env types.Env) *uint256.Int {
			return c.Value.Get(env)
		})
		require.Equal(t, uint256.NewInt(3), direct)
		require.NoError(t, v.Close())
	})

	t.Run("failed calls are rolled back", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.NewContract[Counter](v)

		err := counter.Sender(alice).Call("decrement(uint256)", uint256.NewInt(1)).UnwrapErr()
		require.ErrorIs(t, err, errNegative)

		err = counter.Sender(alice).Do(func(c *Counter, env types.Env) error {
			c.Value.Set(env, uint256.NewInt(100))
			return errNegative
		}).UnwrapErr()
		require.ErrorIs(t, err, errNegative)

		require.True(t, vm.Get[*uint256.Int](counter.Sender(alice).Call("value()")).IsZero())
		require.NoError(t, v.Close())
	})

	t.Run("same tag yields the same instance", func(t *testing.T) {
		v := vm.New()
		first := vm.ContractFromTag[Counter](v, "shared")
		second := vm.ContractFromTag[Counter](v, "shared")

		require.Equal(t, first.Address(), second.Address())
		require.Same(t, first.Instance(), second.Instance())
	})

	t.Run("fresh contracts get distinct addresses", func(t *testing.T) {
		v := vm.New()
		first := vm.NewContract[Counter](v)
		second := vm.NewContract[Counter](v)
		require.NotEqual(t, first.Address(), second.Address())

		// deterministic across VMs
		require.Equal(t, first.Address(), vm.NewContract[Counter](vm.New()).Address())
	})

	t.Run("misuse panics", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.ContractFromTag[Counter](v, "counter")

		unittest.RequirePanicsWithCode(t, errors.ErrCodeUnknownMethod, func() {
			counter.Sender(alice).Call("missing()")
		})
		unittest.RequirePanicsWithCode(t, errors.ErrCodeNonPayableCallWithValue, func() {
			v.Fund(alice, uint256.NewInt(1))
			counter.SenderAndValue(alice, uint256.NewInt(1)).Call("increment(uint256)", uint256.NewInt(1))
		})
		unittest.RequirePanicsWithCode(t, errors.ErrCodeContractTypeMismatch, func() {
			vm.ContractFromTag[Other](v, "counter")
		})
		unittest.RequirePanicsWithCode(t, errors.ErrCodeInvalidArgument, func() {
			vm.NewContract[NotAContract](v)
		})
		require.NoError(t, v.Close())
	})

	t.Run("nested misuse is fatal even when the error is dropped", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.ContractFromTag[Counter](v, "counter")
		target := vm.ContractFromTag[Counter](v, "target")

		unittest.RequirePanicsWithCode(t, errors.ErrCodeUnknownMethod, func() {
			counter.Sender(alice).Do(func(c *Counter, env types.Env) error {
				c.Value.Set(env, uint256.NewInt(5))
				_, _ = env.Call(target.Address(), "missing()")
				return nil
			})
		})

		require.True(t, vm.Get[*uint256.Int](counter.Sender(alice).Call("value()")).IsZero())
		require.Empty(t, v.CallStack())
		require.NoError(t, v.Close())
	})

	t.Run("direct access does not accept value", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice")
		alice.Fund(uint256.NewInt(3))
		counter := vm.ContractFromTag[Counter](v, "counter")

		unittest.RequirePanicsWithCode(t, errors.ErrCodeNonPayableCallWithValue, func() {
			counter.SenderAndValue(alice.Address(), uint256.NewInt(3)).Do(func(*Counter, types.Env) error {
				return nil
			})
		})

		require.Equal(t, uint256.NewInt(3), alice.Balance())
		require.True(t, counter.Balance().IsZero())

		// a nil value is no value
		counter.SenderAndValue(alice.Address(), nil).Call("increment(uint256)", nil).Unwrap()
		require.True(t, vm.Get[*uint256.Int](counter.Sender(alice.Address()).Call("value()")).IsZero())
		require.NoError(t, v.Close())
	})

	t.Run("result type mismatch panics", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.NewContract[Counter](v)

		require.Panics(t, func() {
			vm.Get[bool](counter.Sender(alice).Call("value()"))
		})
	})
}

func TestResult(t *testing.T) {
	t.Run("unwrap of a failed call names both sides", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.ContractFromTag[Counter](v, "contract")

		unittest.RequirePanicsContaining(
			t,
			"account alice failed to call contract: counter would become negative",
			func() {
				counter.Sender(alice).Call("decrement(uint256)", uint256.NewInt(1)).Unwrap()
			})
	})

	t.Run("unwrap err of a successful call uses tags", func(t *testing.T) {
		v := vm.New()
		alice := v.Account("alice").Address()
		counter := vm.ContractFromTag[Counter](v, "contract")

		defer unittest.ExpectPanic("account alice should fail to call contract", t)
		counter.Sender(alice).Call("increment(uint256)", uint256.NewInt(1)).UnwrapErr()
	})

	t.Run("unwrap err without tags uses hex", func(t *testing.T) {
		v := vm.New()
		alice := common.HexToAddress("0xDeaDbeefdEAdbeefdEadbEEFdeadbeEFdEaDbeeF")
		counter := vm.ContractAt[Counter](v, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))

		defer unittest.ExpectPanic(
			"account 0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef should fail to call 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
			t)
		counter.Sender(alice).Call("increment(uint256)", uint256.NewInt(1)).UnwrapErr()
	})
}

func TestAccount(t *testing.T) {
	v := vm.New()
	alice := v.Account("alice")

	require.Equal(t, common.HexToAddress("0x328809bc894f92807417d2dad6b7c998c1afdac6"), alice.Address())
	require.Same(t, alice, v.Account("alice"))
	require.Equal(t, "alice", alice.Tag())

	alice.Fund(uint256.NewInt(10))
	require.Equal(t, uint256.NewInt(10), alice.Balance())
	require.Equal(t, uint256.NewInt(10), v.TotalSupply())

	msg := []byte("message")
	sig, err := alice.Signer().SignMessage(msg)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	pub, err := crypto.SigToPub(accounts.TextHash(msg), sig)
	require.NoError(t, err)
	require.Equal(t, alice.Address(), crypto.PubkeyToAddress(*pub))
	require.Equal(t, alice.Address(), alice.Signer().Address())

	v.Debit(alice.Address(), uint256.NewInt(4))
	require.Equal(t, uint256.NewInt(6), alice.Balance())
	unittest.RequirePanicsWithCode(t, errors.ErrCodeInsufficientBalance, func() {
		v.Debit(alice.Address(), uint256.NewInt(7))
	})
	require.Equal(t, uint256.NewInt(6), alice.Balance())

	require.NoError(t, v.Close())
}

func TestVMContext(t *testing.T) {
	v := vm.New(vm.WithChainID(7), vm.WithBlockNumber(10), vm.WithBlockTimestamp(20))
	alice := v.Account("alice").Address()
	counter := vm.NewContract[Counter](v)

	require.Equal(t, uint64(7), vm.Get[uint64](counter.Sender(alice).Call("chainId()")))
	require.Equal(t, uint64(10), v.Context().BlockNumber())
	require.Equal(t, uint64(20), v.Context().BlockTimestamp())

	v.Context().SetChainID(1)
	require.Equal(t, uint64(1), vm.Get[uint64](counter.Sender(alice).Call("chainId()")))

	require.Equal(t, uint64(42161), vm.New().Context().ChainID())
}

func TestStorageDump(t *testing.T) {
	v := vm.New()
	alice := v.Account("alice").Address()
	counter := vm.NewContract[Counter](v)

	counter.Sender(alice).Call("increment(uint256)", uint256.NewInt(2)).Unwrap()

	dump := v.Storage(counter.Address())
	require.Len(t, dump, 1)
	require.Equal(t, common.BigToHash(uint256.NewInt(2).ToBig()), dump[counter.Instance().Value.Slot()])
}

func TestTracer(t *testing.T) {
	recorder := &tracing.Recorder{}
	v := vm.New(vm.WithTracer(recorder))
	alice := v.Account("alice").Address()
	counter := vm.NewContract[Counter](v)

	counter.Sender(alice).Call("increment(uint256)", uint256.NewInt(1)).Unwrap()
	counter.Sender(alice).Call("decrement(uint256)", uint256.NewInt(5))

	require.Len(t, recorder.Entered, 2)
	require.Equal(t, "increment", recorder.Entered[0].Method)
	require.Equal(t, alice, recorder.Entered[0].Caller)
	require.NoError(t, recorder.Errors[0])
	require.ErrorIs(t, recorder.Errors[1], errNegative)
	require.Empty(t, v.CallStack())
}

func TestClose(t *testing.T) {
	v := vm.New()
	alice := v.Account("alice").Address()
	counter := vm.NewContract[Counter](v)

	var closeErr error
	counter.Sender(alice).Do(func(c *Counter, env types.Env) error {
		c.Value.Set(env, uint256.NewInt(1))
		closeErr = v.Close()
		require.Len(t, v.CallStack(), 1)
		return nil
	}).Unwrap()

	require.Error(t, closeErr)
	require.Contains(t, closeErr.Error(), "call frames still active")
	require.Contains(t, closeErr.Error(), "uncommitted state changes")
	require.NoError(t, v.Close())
}

func TestAddressOfTags(t *testing.T) {
	require.Equal(t, "alice", address.NameOf(vm.New().Account("alice").Address()))
}
