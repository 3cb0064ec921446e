package vm

import (
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/motsu-go/motsu/vm/address"
	vmErrors "github.com/motsu-go/motsu/vm/errors"
)

// FixtureTag overrides the tag a fixture field is derived from. A field
// tagged "-" is left alone.
const FixtureTag = "motsu"

// injectable is implemented by the pointer to every Contract[T].
type injectable interface {
	deploy(v *VM, addr common.Address) error
}

var (
	addressType = reflect.TypeOf(common.Address{})
	accountType = reflect.TypeOf((*Account)(nil))
	injectType  = reflect.TypeOf((*injectable)(nil)).Elem()
)

// Run creates a VM, fills the exported fields of a fresh F with fixtures
// and runs test with them. A field is derived from its motsu tag, or from
// its name in snake case when it has none:
//
//	common.Address     the address of the tag
//	*vm.Account        the account of the tag, with key material
//	*vm.Contract[T]    a T deployed at the address of the tag
//
// The VM is closed when the test finishes; leaving it in a non terminal
// state fails the test.
func Run[F any](t *testing.T, test func(t *testing.T, v *VM, f *F), opts ...Option) {
	t.Helper()

	v := New(opts...)
	t.Cleanup(func() {
		if err := v.Close(); err != nil {
			t.Error(err)
		}
	})

	f := new(F)
	if err := Inject(v, f); err != nil {
		t.Fatalf("%+v", err)
	}

	test(t, v, f)
}

// Inject fills the exported fields of the struct fixtures points to, see Run.
func Inject(v *VM, fixtures any) error {
	ptr := reflect.ValueOf(fixtures)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return errors.WithStack(vmErrors.NewInvalidFixtureErrorf("expected a pointer to a struct, got %T", fixtures))
	}

	s := ptr.Elem()
	for i := 0; i < s.NumField(); i++ {
		field := s.Type().Field(i)
		if !field.IsExported() {
			continue
		}

		tag := SnakeCase(field.Name)
		if override, ok := field.Tag.Lookup(FixtureTag); ok {
			if override == "-" {
				continue
			}
			if override != "" {
				tag = override
			}
		}

		value, err := fixture(v, field.Type, tag)
		if err != nil {
			return errors.Wrapf(err, "fixture %s", field.Name)
		}
		s.Field(i).Set(value)
	}
	return nil
}

func fixture(v *VM, typ reflect.Type, tag string) (reflect.Value, error) {
	switch {
	case typ == addressType:
		return reflect.ValueOf(address.FromTag(tag)), nil
	case typ == accountType:
		return reflect.ValueOf(v.Account(tag)), nil
	case typ.Kind() == reflect.Pointer && typ.Implements(injectType):
		handle := reflect.New(typ.Elem())
		if err := handle.Interface().(injectable).deploy(v, address.FromTag(tag)); err != nil {
			return reflect.Value{}, errors.WithStack(err)
		}
		return handle, nil
	}
	return reflect.Value{}, errors.WithStack(
		vmErrors.NewInvalidFixtureErrorf("unsupported fixture type %s", typ))
}

// SnakeCase converts a Go identifier to the tag naming convention:
// "MyContract" becomes "my_contract", "ERC20Token" becomes "erc20_token".
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
