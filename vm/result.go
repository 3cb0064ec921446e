package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/motsu-go/motsu/vm/address"
)

// Result is the outcome of a call made by a test.
type Result struct {
	From  common.Address
	To    common.Address
	Value any
	Err   error
}

// Unwrap returns the value of a successful call and panics otherwise.
func (r Result) Unwrap() any {
	if r.Err != nil {
		panic(fmt.Sprintf(
			"account %s failed to call %s: %v",
			address.NameOf(r.From),
			address.NameOf(r.To),
			r.Err))
	}
	return r.Value
}

// UnwrapErr returns the error of a failed call and panics if the call
// succeeded.
func (r Result) UnwrapErr() error {
	if r.Err == nil {
		panic(fmt.Sprintf(
			"account %s should fail to call %s",
			address.NameOf(r.From),
			address.NameOf(r.To)))
	}
	return r.Err
}

// Get unwraps r and returns its value as an R. A call without a return
// value yields the zero R.
func Get[R any](r Result) R {
	v := r.Unwrap()
	if v == nil {
		var zero R
		return zero
	}
	out, ok := v.(R)
	if !ok {
		panic(fmt.Sprintf(
			"call of %s returned %T, not %T",
			address.NameOf(r.To),
			v,
			out))
	}
	return out
}
