package errors

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/motsu-go/motsu/vm/address"
)

// NonPayableCallWithValueError indicates that value was attached to a call
// of a method that is not marked payable.
type NonPayableCallWithValueError struct {
	Contract common.Address
	Method   string
	Value    *uint256.Int
}

func NewNonPayableCallWithValueError(
	contract common.Address,
	method string,
	value *uint256.Int,
) *NonPayableCallWithValueError {
	return &NonPayableCallWithValueError{
		Contract: contract,
		Method:   method,
		Value:    value.Clone(),
	}
}

func (e *NonPayableCallWithValueError) Error() string {
	return fmt.Sprintf(
		"%s method %s of %s is not payable but was called with value %s",
		e.Code(),
		e.Method,
		address.NameOf(e.Contract),
		e.Value.ToBig().String())
}

func (e *NonPayableCallWithValueError) Code() ErrorCode {
	return ErrCodeNonPayableCallWithValue
}

// UnknownMethodError indicates that the vtable of a contract has no entry
// for the requested method.
type UnknownMethodError struct {
	Contract common.Address
	Method   string
}

func NewUnknownMethodError(contract common.Address, method string) *UnknownMethodError {
	return &UnknownMethodError{
		Contract: contract,
		Method:   method,
	}
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf(
		"%s contract %s has no method %s",
		e.Code(),
		address.NameOf(e.Contract),
		e.Method)
}

func (e *UnknownMethodError) Code() ErrorCode {
	return ErrCodeUnknownMethod
}

// UnknownContractError indicates a call to an address with no registered
// contract.
type UnknownContractError struct {
	Address common.Address
}

func NewUnknownContractError(addr common.Address) *UnknownContractError {
	return &UnknownContractError{Address: addr}
}

func (e *UnknownContractError) Error() string {
	return fmt.Sprintf("%s no contract is deployed at %s", e.Code(), address.NameOf(e.Address))
}

func (e *UnknownContractError) Code() ErrorCode {
	return ErrCodeUnknownContract
}

// NewNoActiveFrameError is returned when a host function that reads the call
// frame (sender, value, storage) is used outside of any dispatched call.
func NewNoActiveFrameError(operation string) CodedError {
	return NewCodedError(
		ErrCodeNoActiveFrame,
		"%s requires an active call frame",
		operation)
}

// NewInvalidArgumentErrorf indicates that the arguments passed to a method
// do not match its declared parameters.
func NewInvalidArgumentErrorf(method string, msg string, args ...interface{}) CodedError {
	return NewCodedError(
		ErrCodeInvalidArgument,
		"invalid arguments for %s: "+msg,
		append([]interface{}{method}, args...)...)
}

// NewInvalidFixtureErrorf indicates a fixture struct that can not be injected.
func NewInvalidFixtureErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidFixture, "invalid fixture: "+msg, args...)
}

// NewInvalidStorageLayoutErrorf indicates a contract type whose fields can not
// be laid out on storage slots.
func NewInvalidStorageLayoutErrorf(contractType string, msg string, args ...interface{}) CodedError {
	return NewCodedError(
		ErrCodeInvalidStorageLayout,
		"invalid storage layout for %s: "+msg,
		append([]interface{}{contractType}, args...)...)
}

// NewEventEncodingErrorf indicates an event value that can not be encoded as
// a log.
func NewEventEncodingErrorf(event string, msg string, args ...interface{}) CodedError {
	return NewCodedError(
		ErrCodeEventEncoding,
		"can not encode event %s: "+msg,
		append([]interface{}{event}, args...)...)
}

// NewInvalidMethodTableError indicates a contract whose method table can not
// be indexed, e.g. two methods sharing a selector.
func NewInvalidMethodTableError(contractType string, err error) CodedError {
	return WrapCodedError(
		ErrCodeInvalidMethodTable,
		err,
		"invalid method table for %s",
		contractType)
}

// ContractTypeMismatchError indicates that an address is already bound to a
// contract of another type.
type ContractTypeMismatchError struct {
	Address  common.Address
	Existing string
	Wanted   string
}

func NewContractTypeMismatchError(addr common.Address, existing, wanted string) *ContractTypeMismatchError {
	return &ContractTypeMismatchError{
		Address:  addr,
		Existing: existing,
		Wanted:   wanted,
	}
}

func (e *ContractTypeMismatchError) Error() string {
	return fmt.Sprintf(
		"%s %s is already bound to a %s contract, can not bind it to %s",
		e.Code(),
		address.NameOf(e.Address),
		e.Existing,
		e.Wanted)
}

func (e *ContractTypeMismatchError) Code() ErrorCode {
	return ErrCodeContractTypeMismatch
}

// MissingKeyMaterialError is returned when signing is requested for an
// address that was not created as an account.
type MissingKeyMaterialError struct {
	Address common.Address
}

func NewMissingKeyMaterialError(addr common.Address) *MissingKeyMaterialError {
	return &MissingKeyMaterialError{Address: addr}
}

func (e *MissingKeyMaterialError) Error() string {
	return fmt.Sprintf("%s %s has no signing key", e.Code(), address.NameOf(e.Address))
}

func (e *MissingKeyMaterialError) Code() ErrorCode {
	return ErrCodeMissingKeyMaterial
}
