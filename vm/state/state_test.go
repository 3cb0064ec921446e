package state_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/errors"
	"github.com/motsu-go/motsu/vm/state"
)

var (
	contractAddr = address.FromTag("contract")
	aliceAddr    = address.FromTag("alice")
	bobAddr      = address.FromTag("bob")
)

func TestArena(t *testing.T) {
	t.Parallel()

	t.Run("unset slots read as zero", func(t *testing.T) {
		arena := state.NewArena(state.NewJournal())
		require.Equal(t, common.Hash{}, arena.Get(contractAddr, common.Hash{0x01}))
	})

	t.Run("set then get round trips", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			arena := state.NewArena(state.NewJournal())
			key := common.BytesToHash(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "key"))
			value := common.BytesToHash(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "value"))

			arena.Set(contractAddr, key, value)
			require.Equal(t, value, arena.Get(contractAddr, key))
		})
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		arena := state.NewArena(state.NewJournal())
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0xaa})
		require.Equal(t, common.Hash{}, arena.Get(bobAddr, common.Hash{0x01}))
	})

	t.Run("slots are sorted", func(t *testing.T) {
		arena := state.NewArena(state.NewJournal())
		arena.Set(contractAddr, common.Hash{0x03}, common.Hash{0x01})
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x01})
		arena.Set(contractAddr, common.Hash{0x02}, common.Hash{0x01})
		require.Equal(t,
			[]common.Hash{{0x01}, {0x02}, {0x03}},
			arena.Slots(contractAddr))
	})
}

func TestJournal(t *testing.T) {
	t.Parallel()

	t.Run("revert restores storage and balances", func(t *testing.T) {
		journal := state.NewJournal()
		arena := state.NewArena(journal)
		ledger := state.NewLedger(journal)

		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x0a})
		ledger.Fund(aliceAddr, uint256.NewInt(10))
		before := arena.Dump(contractAddr)

		snapshot := journal.Snapshot()
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x0b})
		arena.Set(contractAddr, common.Hash{0x02}, common.Hash{0x0c})
		require.NoError(t, ledger.Transfer(aliceAddr, contractAddr, uint256.NewInt(4)))

		journal.RevertTo(snapshot)

		require.Empty(t, cmp.Diff(before, arena.Dump(contractAddr)))
		require.Equal(t, uint256.NewInt(10), ledger.Balance(aliceAddr))
		require.True(t, ledger.Balance(contractAddr).IsZero())
		require.Equal(t, []common.Address{aliceAddr}, ledger.Addresses())
	})

	t.Run("nested snapshots", func(t *testing.T) {
		journal := state.NewJournal()
		arena := state.NewArena(journal)

		outer := journal.Snapshot()
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x01})
		inner := journal.Snapshot()
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x02})

		journal.RevertTo(inner)
		require.Equal(t, common.Hash{0x01}, arena.Get(contractAddr, common.Hash{0x01}))

		journal.RevertTo(outer)
		require.Equal(t, common.Hash{}, arena.Get(contractAddr, common.Hash{0x01}))
		require.Equal(t, 0, journal.Len())
	})

	t.Run("commit drops entries", func(t *testing.T) {
		journal := state.NewJournal()
		arena := state.NewArena(journal)
		arena.Set(contractAddr, common.Hash{0x01}, common.Hash{0x01})
		require.Equal(t, 1, journal.Len())

		journal.Commit()
		require.Equal(t, 0, journal.Len())
		require.Equal(t, common.Hash{0x01}, arena.Get(contractAddr, common.Hash{0x01}))
	})

	t.Run("out of range snapshot panics", func(t *testing.T) {
		journal := state.NewJournal()
		require.Panics(t, func() { journal.RevertTo(1) })
	})
}

func TestLedger(t *testing.T) {
	t.Parallel()

	t.Run("fund and debit", func(t *testing.T) {
		ledger := state.NewLedger(state.NewJournal())
		require.True(t, ledger.Balance(aliceAddr).IsZero())

		ledger.Fund(aliceAddr, uint256.NewInt(10))
		require.NoError(t, ledger.Debit(aliceAddr, uint256.NewInt(3)))
		require.Equal(t, uint256.NewInt(7), ledger.Balance(aliceAddr))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		ledger := state.NewLedger(state.NewJournal())
		ledger.Fund(aliceAddr, uint256.NewInt(1))

		err := ledger.Transfer(aliceAddr, bobAddr, uint256.NewInt(2))
		require.Error(t, err)
		require.True(t, errors.IsInsufficientBalanceError(err))

		var balanceErr *errors.InsufficientBalanceError
		require.True(t, errors.As(err, &balanceErr))
		require.Equal(t, uint256.NewInt(1), balanceErr.Balance)
		require.Equal(t, uint256.NewInt(2), balanceErr.Needed)

		// nothing moved
		require.Equal(t, uint256.NewInt(1), ledger.Balance(aliceAddr))
		require.True(t, ledger.Balance(bobAddr).IsZero())
	})

	t.Run("balance copies are detached", func(t *testing.T) {
		ledger := state.NewLedger(state.NewJournal())
		ledger.Fund(aliceAddr, uint256.NewInt(5))
		bal := ledger.Balance(aliceAddr)
		bal.SetUint64(100)
		require.Equal(t, uint256.NewInt(5), ledger.Balance(aliceAddr))
	})

	t.Run("transfers conserve the total", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			ledger := state.NewLedger(state.NewJournal())
			parties := []common.Address{aliceAddr, bobAddr, contractAddr}
			for _, p := range parties {
				ledger.Fund(p, uint256.NewInt(rapid.Uint64Range(0, 1_000).Draw(t, "fund")))
			}
			total := ledger.Total()

			steps := rapid.IntRange(0, 20).Draw(t, "steps")
			for i := 0; i < steps; i++ {
				from := rapid.SampledFrom(parties).Draw(t, "from")
				to := rapid.SampledFrom(parties).Draw(t, "to")
				amount := uint256.NewInt(rapid.Uint64Range(0, 1_500).Draw(t, "amount"))
				_ = ledger.Transfer(from, to, amount)
			}

			require.Equal(t, total, ledger.Total())
		})
	})

	t.Run("signing needs key material", func(t *testing.T) {
		ledger := state.NewLedger(state.NewJournal())
		message := []byte("message")

		_, err := ledger.Sign(bobAddr, message)
		require.True(t, errors.HasErrorCode(err, errors.ErrCodeMissingKeyMaterial))

		key := address.KeyFromTag("alice")
		account := address.AccountFromTag("alice")
		ledger.SetKey(account, key)
		require.True(t, ledger.HasKey(account))

		sig, err := ledger.Sign(account, message)
		require.NoError(t, err)
		require.Len(t, sig, crypto.SignatureLength)

		pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
		require.NoError(t, err)
		require.Equal(t, account, crypto.PubkeyToAddress(*pub))
	})
}
