package events

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/motsu-go/motsu/vm/state"
)

// Record is an emitted event together with its encoded log.
type Record struct {
	Event any
	Log   *gethTypes.Log
}

func (r Record) String() string {
	return Format(r.Event)
}

// Log is the per-contract, ordered list of emitted events of a VM.
type Log struct {
	journal *state.Journal
	records map[common.Address][]Record
}

func NewLog(journal *state.Journal) *Log {
	return &Log{
		journal: journal,
		records: make(map[common.Address][]Record),
	}
}

// Emit encodes event and appends it to the log of contract. The append is
// undone if the emitting call frame reverts.
func (l *Log) Emit(contract common.Address, event any) error {
	encoded, err := Encode(contract, event)
	if err != nil {
		return err
	}

	prev := l.records[contract]
	encoded.Index = uint(len(prev))
	l.records[contract] = append(prev, Record{Event: event, Log: encoded})
	l.journal.Append(state.RevertFunc(func() {
		if len(prev) == 0 {
			delete(l.records, contract)
			return
		}
		l.records[contract] = prev[:len(prev):len(prev)]
	}))
	return nil
}

// Records returns a copy of the events emitted by contract, oldest first.
func (l *Log) Records(contract common.Address) []Record {
	records := l.records[contract]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Len returns the number of events emitted by contract.
func (l *Log) Len(contract common.Address) int {
	return len(l.records[contract])
}

// Matching returns the events of contract that have the same type as event.
func (l *Log) Matching(contract common.Address, event any) ([]Record, error) {
	expected, err := Encode(contract, event)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range l.records[contract] {
		if r.Log.Topics[0] == expected.Topics[0] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Emitted reports whether contract emitted an event equal to event.
func (l *Log) Emitted(contract common.Address, event any) (bool, error) {
	expected, err := Encode(contract, event)
	if err != nil {
		return false, err
	}
	for _, r := range l.records[contract] {
		if sameLog(r.Log, expected) {
			return true, nil
		}
	}
	return false, nil
}

// AssertEmitted panics unless contract emitted an event equal to event. The
// panic message lists the events of the same type that were emitted.
func (l *Log) AssertEmitted(contract common.Address, event any) {
	ok, err := l.Emitted(contract, event)
	if err != nil {
		panic(err)
	}
	if ok {
		return
	}

	matching, err := l.Matching(contract, event)
	if err != nil {
		panic(err)
	}
	formatted := make([]string, len(matching))
	for i, r := range matching {
		formatted[i] = r.String()
	}
	panic(fmt.Sprintf("event was not emitted, matching events: [%s]", strings.Join(formatted, ", ")))
}

func sameLog(a, b *gethTypes.Log) bool {
	if len(a.Topics) != len(b.Topics) {
		return false
	}
	for i := range a.Topics {
		if a.Topics[i] != b.Topics[i] {
			return false
		}
	}
	return bytes.Equal(a.Data, b.Data)
}
