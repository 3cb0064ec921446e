package events

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/errors"
)

// EventTag is the struct tag that renames a field or marks it indexed, e.g.
//
//	From common.Address `event:"from,indexed"`
const EventTag = "event"

var (
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
	u256PtrType = reflect.TypeOf((*uint256.Int)(nil))
	u256Type    = reflect.TypeOf(uint256.Int{})
	bigPtrType  = reflect.TypeOf((*big.Int)(nil))
	bytesType   = reflect.TypeOf([]byte(nil))
)

type field struct {
	index   int
	name    string
	indexed bool
}

// schema is the ABI description of a Go event struct.
type schema struct {
	name   string
	fields []field
	event  abi.Event
}

var schemas sync.Map // map[reflect.Type]*schema

func schemaOf(t reflect.Type) (*schema, error) {
	if s, ok := schemas.Load(t); ok {
		return s.(*schema), nil
	}

	s := &schema{name: t.Name()}
	var args abi.Arguments
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		f := field{index: i, name: lowerFirst(sf.Name)}
		if tag, ok := sf.Tag.Lookup(EventTag); ok {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				f.name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "indexed" {
					f.indexed = true
				}
			}
		}

		solType, err := solidityType(sf.Type)
		if err != nil {
			return nil, errors.NewEventEncodingErrorf(s.name, "field %s: %v", sf.Name, err)
		}
		abiType, err := abi.NewType(solType, "", nil)
		if err != nil {
			return nil, errors.NewEventEncodingErrorf(s.name, "field %s: %v", sf.Name, err)
		}

		s.fields = append(s.fields, f)
		args = append(args, abi.Argument{Name: f.name, Type: abiType, Indexed: f.indexed})
	}

	indexed := 0
	for _, f := range s.fields {
		if f.indexed {
			indexed++
		}
	}
	if indexed > 3 {
		return nil, errors.NewEventEncodingErrorf(s.name, "%d indexed fields, at most 3 are allowed", indexed)
	}

	s.event = abi.NewEvent(s.name, s.name, false, args)
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*schema), nil
}

func solidityType(t reflect.Type) (string, error) {
	switch t {
	case addressType:
		return "address", nil
	case hashType:
		return "bytes32", nil
	case u256PtrType, u256Type, bigPtrType:
		return "uint256", nil
	case bytesType:
		return "bytes", nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return "bool", nil
	case reflect.String:
		return "string", nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("uint%d", t.Bits()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("int%d", t.Bits()), nil
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && t.Len() <= 32 {
			return fmt.Sprintf("bytes%d", t.Len()), nil
		}
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

// abiValue converts a field value into the representation accounts/abi packs.
func abiValue(v reflect.Value) interface{} {
	switch v.Type() {
	case u256PtrType:
		if v.IsNil() {
			return new(big.Int)
		}
		return v.Interface().(*uint256.Int).ToBig()
	case u256Type:
		u := v.Interface().(uint256.Int)
		return u.ToBig()
	case bigPtrType:
		if v.IsNil() {
			return new(big.Int)
		}
		return new(big.Int).Set(v.Interface().(*big.Int))
	case hashType:
		return [32]byte(v.Interface().(common.Hash))
	}
	return v.Interface()
}

func structValue(event any) (reflect.Value, error) {
	v := reflect.ValueOf(event)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, errors.NewEventEncodingErrorf("<nil>", "nil event")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, errors.NewEventEncodingErrorf(fmt.Sprintf("%T", event), "events must be structs")
	}
	return v, nil
}

// Signature returns the canonical signature of event, e.g.
// "Transfer(address,address,uint256)".
func Signature(event any) (string, error) {
	v, err := structValue(event)
	if err != nil {
		return "", err
	}
	s, err := schemaOf(v.Type())
	if err != nil {
		return "", err
	}
	return s.event.Sig, nil
}

// Encode converts event into the log a contract at contract would emit for
// it: topic 0 is the event id, indexed fields follow as topics and the rest
// is ABI encoded into the data.
func Encode(contract common.Address, event any) (*gethTypes.Log, error) {
	v, err := structValue(event)
	if err != nil {
		return nil, err
	}
	s, err := schemaOf(v.Type())
	if err != nil {
		return nil, err
	}

	var topicArgs []interface{}
	var dataArgs []interface{}
	for _, f := range s.fields {
		value := abiValue(v.Field(f.index))
		if f.indexed {
			topicArgs = append(topicArgs, value)
			continue
		}
		dataArgs = append(dataArgs, value)
	}

	topics := []common.Hash{s.event.ID}
	if len(topicArgs) > 0 {
		query := make([][]interface{}, len(topicArgs))
		for i, arg := range topicArgs {
			query[i] = []interface{}{arg}
		}
		hashed, err := abi.MakeTopics(query...)
		if err != nil {
			return nil, errors.NewEventEncodingErrorf(s.name, "%v", err)
		}
		for _, h := range hashed {
			topics = append(topics, h[0])
		}
	}

	data, err := s.event.Inputs.NonIndexed().Pack(dataArgs...)
	if err != nil {
		return nil, errors.NewEventEncodingErrorf(s.name, "%v", err)
	}

	return &gethTypes.Log{
		Address: contract,
		Topics:  topics,
		Data:    data,
	}, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
