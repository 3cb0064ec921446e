package events

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/address"
)

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Format renders event as `Name { field: value, ... }`. Addresses are
// rendered by the tag they were derived from.
func Format(event any) string {
	v, err := structValue(event)
	if err != nil {
		return fmt.Sprintf("%v", event)
	}
	s, err := schemaOf(v.Type())
	if err != nil {
		return spewConfig.Sprintf("%+v", event)
	}

	if len(s.fields) == 0 {
		return s.name
	}

	parts := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.name, formatValue(v.Field(f.index))))
	}
	return fmt.Sprintf("%s { %s }", s.name, strings.Join(parts, ", "))
}

func formatValue(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case common.Address:
		return address.NameOf(x)
	case common.Hash:
		return x.Hex()
	case *uint256.Int:
		if x == nil {
			return "0"
		}
		return x.ToBig().String()
	case uint256.Int:
		return x.ToBig().String()
	case *big.Int:
		if x == nil {
			return "0"
		}
		return x.String()
	case []byte:
		return hexutil.Encode(x)
	case string:
		return fmt.Sprintf("%q", x)
	}

	switch v.Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%v", v.Interface())
	case reflect.Array:
		b := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(b), v)
		return hexutil.Encode(b)
	}
	return spewConfig.Sprintf("%v", v.Interface())
}
