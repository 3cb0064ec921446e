package types_test

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/types"
)

func TestSelector(t *testing.T) {
	require.Equal(t, "0xa9059cbb", types.SelectorOf("transfer(address,uint256)").String())
	require.Equal(t, "0x70a08231", types.SelectorOf("balanceOf(address)").String())
}

func TestMethod(t *testing.T) {
	t.Run("name and payable", func(t *testing.T) {
		m := types.Action0("deposit()", func(types.Env) error { return nil })
		require.Equal(t, "deposit", m.Name())
		require.False(t, m.Payable)
		require.True(t, types.Payable(m).Payable)
	})

	t.Run("binders forward typed arguments", func(t *testing.T) {
		m := types.Func2("add(uint256,uint256)", func(_ types.Env, a, b *uint256.Int) (*uint256.Int, error) {
			return new(uint256.Int).Add(a, b), nil
		})
		out, err := m.Handler(nil, []any{uint256.NewInt(1), uint256.NewInt(2)})
		require.NoError(t, err)
		require.Equal(t, uint256.NewInt(3), out)
	})

	t.Run("nil arguments are zero values", func(t *testing.T) {
		m := types.View1("isZero(address)", func(_ types.Env, a common.Address) bool {
			return a == common.Address{}
		})
		out, err := m.Handler(nil, []any{nil})
		require.NoError(t, err)
		require.Equal(t, true, out)
	})

	t.Run("nil integers are zero", func(t *testing.T) {
		m := types.Func1("inc(uint256)", func(_ types.Env, v *uint256.Int) (*uint256.Int, error) {
			return new(uint256.Int).AddUint64(v, 1), nil
		})
		for _, arg := range []any{nil, (*uint256.Int)(nil)} {
			out, err := m.Handler(nil, []any{arg})
			require.NoError(t, err)
			require.Equal(t, uint256.NewInt(1), out)
		}
	})

	t.Run("wrong arity", func(t *testing.T) {
		m := types.Action1("set(uint256)", func(types.Env, *uint256.Int) error { return nil })
		_, err := m.Handler(nil, nil)
		require.True(t, errors.HasErrorCode(err, errors.ErrCodeInvalidArgument))
	})

	t.Run("wrong argument type", func(t *testing.T) {
		m := types.Action1("set(uint256)", func(types.Env, *uint256.Int) error { return nil })
		_, err := m.Handler(nil, []any{uint64(1)})
		require.True(t, errors.HasErrorCode(err, errors.ErrCodeInvalidArgument))
		require.True(t, errors.IsMisuse(err))
	})

	t.Run("contract errors pass through", func(t *testing.T) {
		boom := fmt.Errorf("boom")
		m := types.Action0("fail()", func(types.Env) error { return boom })
		_, err := m.Handler(nil, []any{})
		require.Same(t, boom, err)
		require.True(t, errors.IsContractError(err))
	})
}

func TestMethodTable(t *testing.T) {
	noop := func(types.Env) error { return nil }

	table, err := types.MethodTable([]types.Method{
		types.Action0("a()", noop),
		types.Action0("b()", noop),
	})
	require.NoError(t, err)
	require.Len(t, table, 2)
	require.Equal(t, "b()", table[types.SelectorOf("b()")].Signature)

	_, err = types.MethodTable([]types.Method{
		types.Action0("a()", noop),
		types.Action0("a()", noop),
	})
	require.Error(t, err)

	_, err = types.MethodTable([]types.Method{{Signature: "c()"}})
	require.Error(t, err)
}
