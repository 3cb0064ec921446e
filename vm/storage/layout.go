package storage

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/errors"
)

var binderType = reflect.TypeOf((*binder)(nil)).Elem()

// Bind assigns consecutive slots, starting at zero, to the cells of the
// struct ptr points to. Exported fields are visited in declaration order;
// embedded and nested structs that are not cells are laid out in place.
// Unexported fields are ignored and any other exported field is an error.
//
// It returns the number of slots used.
func Bind(ptr any) (int, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return 0, errors.NewInvalidStorageLayoutErrorf(
			fmt.Sprintf("%T", ptr),
			"expected a pointer to a struct")
	}

	next := uint64(0)
	err := bindStruct(v.Elem(), v.Elem().Type().Name(), &next)
	if err != nil {
		return 0, err
	}
	return int(next), nil
}

func bindStruct(v reflect.Value, contractType string, next *uint64) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		field := v.Field(i)
		if field.Addr().Type().Implements(binderType) {
			slot := common.Hash(new(uint256.Int).SetUint64(*next).Bytes32())
			field.Addr().Interface().(binder).bindSlot(slot)
			*next++
			continue
		}

		if sf.Type.Kind() == reflect.Struct {
			if err := bindStruct(field, contractType, next); err != nil {
				return err
			}
			continue
		}

		return errors.NewInvalidStorageLayoutErrorf(
			contractType,
			"field %s of type %s is not a storage cell",
			sf.Name,
			sf.Type)
	}
	return nil
}
