package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)))
}

func TestNewBadRequestError(t *testing.T) {
	fields := []FieldError{{Field: "id", Error: "must fit in uint16"}}

	err := NewBadRequestError("Invalid query parameters", true, nil, fields)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, err.Override)
	assert.Equal(t, fields, err.Errors)
	assert.Equal(t, "Invalid query parameters", err.Error())

	code := "PARAMETER_REJECTED"
	err = NewBadRequestError("x", false, &code, nil)
	assert.Equal(t, code, err.Code)
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("Route not found", false, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestWithMessage(t *testing.T) {
	base := NewInternalServerError()
	changed := base.WithMessage("schema unavailable")

	assert.Equal(t, "schema unavailable", changed.Message)
	assert.Equal(t, base.Code, changed.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), base.Message)
}
