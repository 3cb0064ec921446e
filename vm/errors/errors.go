package errors

import (
	stdErrors "errors"
	"fmt"
)

// CodedError is an error that carries a harness error code.
type CodedError interface {
	Code() ErrorCode

	error
}

// Is is a re-export of the standard library errors.Is
func Is(err, target error) bool {
	return stdErrors.Is(err, target)
}

// As is a re-export of the standard library errors.As
func As(err error, target interface{}) bool {
	return stdErrors.As(err, target)
}

type codedError struct {
	code ErrorCode

	err error
}

// NewCodedError constructs a generic CodedError with a formatted message.
func NewCodedError(
	code ErrorCode,
	format string,
	formatArguments ...interface{},
) codedError {
	return codedError{
		code: code,
		err:  fmt.Errorf(format, formatArguments...),
	}
}

// WrapCodedError wraps err with code, prefixing the message.
func WrapCodedError(
	code ErrorCode,
	err error,
	prefixMsgFormat string,
	formatArguments ...interface{},
) codedError {
	if prefixMsgFormat != "" {
		msg := fmt.Sprintf(prefixMsgFormat, formatArguments...)
		err = fmt.Errorf("%s: %w", msg, err)
	}
	return codedError{
		code: code,
		err:  err,
	}
}

func (err codedError) Unwrap() error {
	return err.err
}

func (err codedError) Error() string {
	return fmt.Sprintf("%v %v", err.code, err.err)
}

func (err codedError) Code() ErrorCode {
	return err.code
}

// Find returns the outermost CodedError in err's chain, or nil.
func Find(originalErr error) CodedError {
	if originalErr == nil {
		return nil
	}

	var coded CodedError
	if !As(originalErr, &coded) {
		return nil
	}

	return coded
}

// HasErrorCode returns true if any error in err's chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		if coded, ok := err.(CodedError); ok && coded.Code() == code {
			return true
		}
		err = stdErrors.Unwrap(err)
	}
	return false
}

// IsMisuse returns true if err (or anything it wraps) is a harness misuse.
func IsMisuse(err error) bool {
	for err != nil {
		if coded, ok := err.(CodedError); ok && IsMisuseCode(coded.Code()) {
			return true
		}
		err = stdErrors.Unwrap(err)
	}
	return false
}

// IsContractError returns true if err was defined by contract code rather
// than by the harness.
func IsContractError(err error) bool {
	return err != nil && Find(err) == nil
}
