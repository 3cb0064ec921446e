package errors

import "fmt"

type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

const (
	// harness misuse errors 1050 - 1100
	ErrCodeNonPayableCallWithValue ErrorCode = 1050
	ErrCodeUnknownMethod           ErrorCode = 1051
	ErrCodeUnknownContract         ErrorCode = 1052
	ErrCodeNoActiveFrame           ErrorCode = 1053
	ErrCodeInvalidArgument         ErrorCode = 1054
	ErrCodeInvalidFixture          ErrorCode = 1055
	ErrCodeContractTypeMismatch    ErrorCode = 1056
	ErrCodeMissingKeyMaterial      ErrorCode = 1057
	ErrCodeInvalidStorageLayout    ErrorCode = 1058
	ErrCodeEventEncoding           ErrorCode = 1059
	ErrCodeInvalidMethodTable      ErrorCode = 1060

	// ledger errors 1200 - 1250
	ErrCodeInsufficientBalance ErrorCode = 1200
)

// IsMisuseCode returns true if the code belongs to the harness misuse range.
// Misuse errors are fatal to the test that caused them.
func IsMisuseCode(code ErrorCode) bool {
	return code >= 1050 && code < 1100
}
