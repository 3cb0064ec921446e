package unittest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motsu-go/motsu/vm/errors"
)

// ExpectPanic is deferred by a test that must panic with expectedMsg. Both
// string and error panics are accepted.
func ExpectPanic(expectedMsg string, t *testing.T) {
	r := recover()
	if r == nil {
		t.Errorf("Expected to panic with `%s`, but did not panic", expectedMsg)
		return
	}
	if msg := panicMessage(r); msg != expectedMsg {
		t.Errorf("expected %v to be %v", msg, expectedMsg)
	}
}

// RequirePanicsWithCode runs f and requires it to panic with an error
// carrying code.
func RequirePanicsWithCode(t testing.TB, code errors.ErrorCode, f func()) {
	t.Helper()

	recovered := capturePanic(f)
	require.NotNil(t, recovered, "expected a panic with %s", code)
	err, ok := recovered.(error)
	require.True(t, ok, "expected an error panic, got %v", recovered)
	require.True(t, errors.HasErrorCode(err, code), "expected %s, got %v", code, err)
}

// RequirePanicsContaining runs f and requires its panic message to contain
// substr.
func RequirePanicsContaining(t testing.TB, substr string, f func()) {
	t.Helper()

	recovered := capturePanic(f)
	require.NotNil(t, recovered, "expected a panic containing %q", substr)
	require.Contains(t, panicMessage(recovered), substr)
}

// AssertErrSubstringMatch asserts that two errors match with substring
// checking on the Error method (`expected` must be a substring of `actual`, to
// account for the actual error being wrapped). Fails the test if either error
// is nil.
func AssertErrSubstringMatch(t testing.TB, expected, actual error) {
	require.NotNil(t, expected)
	require.NotNil(t, actual)
	assert.True(
		t,
		strings.Contains(actual.Error(), expected.Error()) || strings.Contains(expected.Error(), actual.Error()),
		"expected error: '%s', got: '%s'", expected.Error(), actual.Error(),
	)
}

func capturePanic(f func()) (recovered interface{}) {
	defer func() {
		recovered = recover()
	}()
	f()
	return nil
}

func panicMessage(r interface{}) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	}
	return fmt.Sprint(r)
}
