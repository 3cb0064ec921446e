package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/errors"
)

// Handler runs a contract method with dynamically typed arguments.
type Handler func(env Env, args []any) (any, error)

// Method is one entry of a contract's method table.
type Method struct {
	Signature string
	Payable   bool
	Handler   Handler
}

// Contract is implemented by the pointer to every contract type. Methods
// returns the flat method table of the contract; methods inherited from
// embedded components are listed alongside the contract's own.
type Contract interface {
	Methods() []Method
}

func NewMethod(signature string, handler Handler) Method {
	return Method{
		Signature: signature,
		Handler:   handler,
	}
}

// Payable marks m as accepting value.
func Payable(m Method) Method {
	m.Payable = true
	return m
}

// Selector returns the selector of the method signature.
func (m Method) Selector() Selector {
	return SelectorOf(m.Signature)
}

// Name returns the method name without its parameter list.
func (m Method) Name() string {
	if i := strings.IndexByte(m.Signature, '('); i >= 0 {
		return m.Signature[:i]
	}
	return m.Signature
}

func checkArity(signature string, args []any, n int) error {
	if len(args) != n {
		return errors.NewInvalidArgumentErrorf(signature, "expected %d arguments, got %d", n, len(args))
	}
	return nil
}

// argAt converts argument i to T. A nil argument is the zero value of T,
// and a nil *uint256.Int is a zero integer so handlers never see nil.
func argAt[T any](signature string, args []any, i int) (T, error) {
	var zero T
	if args[i] == nil {
		return zeroArg[T](), nil
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, errors.NewInvalidArgumentErrorf(
			signature,
			"argument %d has type %T, expected %T",
			i,
			args[i],
			zero)
	}
	if u, isInt := any(v).(*uint256.Int); isInt && u == nil {
		return zeroArg[T](), nil
	}
	return v, nil
}

func zeroArg[T any]() T {
	var zero T
	if _, isInt := any(zero).(*uint256.Int); isInt {
		return any(new(uint256.Int)).(T)
	}
	return zero
}

// Func0 binds a method taking no arguments.
func Func0[R any](signature string, fn func(Env) (R, error)) Method {
	return NewMethod(signature, func(env Env, args []any) (any, error) {
		if err := checkArity(signature, args, 0); err != nil {
			return nil, err
		}
		return fn(env)
	})
}

// Func1 binds a method taking one argument.
func Func1[A, R any](signature string, fn func(Env, A) (R, error)) Method {
	return NewMethod(signature, func(env Env, args []any) (any, error) {
		if err := checkArity(signature, args, 1); err != nil {
			return nil, err
		}
		a, err := argAt[A](signature, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(env, a)
	})
}

// Func2 binds a method taking two arguments.
func Func2[A, B, R any](signature string, fn func(Env, A, B) (R, error)) Method {
	return NewMethod(signature, func(env Env, args []any) (any, error) {
		if err := checkArity(signature, args, 2); err != nil {
			return nil, err
		}
		a, err := argAt[A](signature, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](signature, args, 1)
		if err != nil {
			return nil, err
		}
		return fn(env, a, b)
	})
}

// Func3 binds a method taking three arguments.
func Func3[A, B, C, R any](signature string, fn func(Env, A, B, C) (R, error)) Method {
	return NewMethod(signature, func(env Env, args []any) (any, error) {
		if err := checkArity(signature, args, 3); err != nil {
			return nil, err
		}
		a, err := argAt[A](signature, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](signature, args, 1)
		if err != nil {
			return nil, err
		}
		c, err := argAt[C](signature, args, 2)
		if err != nil {
			return nil, err
		}
		return fn(env, a, b, c)
	})
}

// View0 binds an infallible method taking no arguments.
func View0[R any](signature string, fn func(Env) R) Method {
	return Func0(signature, func(env Env) (R, error) {
		return fn(env), nil
	})
}

// View1 binds an infallible method taking one argument.
func View1[A, R any](signature string, fn func(Env, A) R) Method {
	return Func1(signature, func(env Env, a A) (R, error) {
		return fn(env, a), nil
	})
}

// View2 binds an infallible method taking two arguments.
func View2[A, B, R any](signature string, fn func(Env, A, B) R) Method {
	return Func2(signature, func(env Env, a A, b B) (R, error) {
		return fn(env, a, b), nil
	})
}

// Action0 binds a method without return value taking no arguments.
func Action0(signature string, fn func(Env) error) Method {
	return Func0(signature, func(env Env) (any, error) {
		return nil, fn(env)
	})
}

// Action1 binds a method without return value taking one argument.
func Action1[A any](signature string, fn func(Env, A) error) Method {
	return Func1(signature, func(env Env, a A) (any, error) {
		return nil, fn(env, a)
	})
}

// Action2 binds a method without return value taking two arguments.
func Action2[A, B any](signature string, fn func(Env, A, B) error) Method {
	return Func2(signature, func(env Env, a A, b B) (any, error) {
		return nil, fn(env, a, b)
	})
}

// MethodTable indexes methods by selector. Two methods with the same
// selector are a programming error of the contract.
func MethodTable(methods []Method) (map[Selector]Method, error) {
	table := make(map[Selector]Method, len(methods))
	for _, m := range methods {
		if m.Handler == nil {
			return nil, fmt.Errorf("method %s has no handler", m.Signature)
		}
		sel := m.Selector()
		if existing, ok := table[sel]; ok {
			return nil, fmt.Errorf(
				"methods %s and %s share selector %s",
				existing.Signature,
				m.Signature,
				sel)
		}
		table[sel] = m
	}
	return table, nil
}
