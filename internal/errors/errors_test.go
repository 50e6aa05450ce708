package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidArgument("mode %q is not supported", "quadratic")
	wrapped := Wrap(base, "interpolate missing")

	assert.Equal(t, CodeInvalidArgument, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Contains(t, wrapped.Error(), "quadratic")
}

func TestWrapPlainError(t *testing.T) {
	cause := stderrors.New("disk on fire")
	wrapped := Wrap(cause, "write events")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWithCodeAndHasCode(t *testing.T) {
	err := WithCode(CodeStorageError, stderrors.New("locked"))
	assert.True(t, HasCode(err, CodeStorageError))
	assert.False(t, HasCode(stderrors.New("plain"), CodeStorageError))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestConstructorsCarryCause(t *testing.T) {
	cause := stderrors.New("all samples missing")
	err := NumericDegenerate("cannot interpolate", cause)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, CodeNumericDegenerate, err.Code)
	assert.Equal(t, "cannot interpolate: all samples missing", err.Error())
}
