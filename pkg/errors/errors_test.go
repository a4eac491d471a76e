package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeBadRequest:           http.StatusBadRequest,
		CodeValidationFailed:     http.StatusBadRequest,
		CodeUnauthorized:         http.StatusUnauthorized,
		CodeNotFound:             http.StatusNotFound,
		CodeRecipeNotFound:       http.StatusNotFound,
		CodeMethodNotAllowed:     http.StatusMethodNotAllowed,
		CodePayloadTooLarge:      http.StatusRequestEntityTooLarge,
		CodeUnsupportedMediaType: http.StatusUnsupportedMediaType,
		CodeTooManyRequests:      http.StatusTooManyRequests,
		CodeDatabaseError:        http.StatusInternalServerError,
		CodeInternal:             http.StatusInternalServerError,
	}

	for code, want := range cases {
		err := NewAppError(code, "msg", "")
		assert.Equal(t, want, err.StatusCode(), string(code))
	}
}

func TestNewDatabaseError_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewDatabaseError("save plan entries", cause)

	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.Equal(t, "Failed to save plan entries", err.Details)
	assert.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	notFound := NewRecipeNotFoundError("abc")
	wrapped := fmt.Errorf("lookup: %w", notFound)
	assert.Same(t, notFound, Wrap(wrapped, "ignored"))

	plain := stderrors.New("boom")
	appErr := Wrap(plain, "generation failed")
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "generation failed", appErr.Message)
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewUnauthorizedError(""))

	assert.True(t, Is(err, CodeUnauthorized))
	assert.False(t, Is(err, CodeNotFound))
	assert.Equal(t, CodeUnauthorized, GetCode(err))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "start", Tag: "required", Message: "start is required"},
		{Field: "end", Tag: "required", Message: "end is required"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "start is required; end is required", err.Details)
	assert.Contains(t, err.Metadata, "validation_errors")
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewBadRequestError("start and end required"), "req-1")

	assert.Equal(t, "start and end required", resp.Error)
	assert.Equal(t, CodeBadRequest, resp.Code)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)
}
