package handler

import (
	"fmt"
	"strings"

	"github.com/deppfellow/go-parameters/internal/errs"
	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/deppfellow/go-parameters/internal/validation"
	"github.com/labstack/echo/v4"
)

// IDParam is the parameter the plain text page reports on.
const IDParam = "id"

// ParametersHandler serves the endpoints that report validated parameters.
type ParametersHandler struct {
	Handler
}

func NewParametersHandler(s *server.Server) *ParametersHandler {
	return &ParametersHandler{
		Handler: NewHandler(s),
	}
}

// ParamsResponse is the JSON body of /v1/params.
type ParamsResponse struct {
	// Params holds the validated values; numbers stay numbers.
	Params map[string]any `json:"params"`

	// Rejected lists declared parameters that were present but unreadable.
	Rejected []errs.FieldError `json:"rejected"`
}

// Page reports the "id" parameter in plain text, once for each type it
// could be read as. A missing or unreadable id yields an empty body.
func (h *ParametersHandler) Page(c echo.Context, values *params.Values) (string, error) {
	var b strings.Builder

	if sid, ok := values.String(IDParam); ok {
		fmt.Fprintf(&b, "id as a string: '%s'\n", sid)
	}

	if id, ok := values.Uint16(IDParam); ok {
		fmt.Fprintf(&b, "id as an u_int16_t: %d\n", id)
	}

	return b.String(), nil
}

// List returns every validated parameter and every rejection.
func (h *ParametersHandler) List(c echo.Context, values *params.Values) (ParamsResponse, error) {
	rejected := validation.FieldErrors(h.server.Schema, values)
	if rejected == nil {
		rejected = []errs.FieldError{}
	}

	return ParamsResponse{
		Params:   values.Map(),
		Rejected: rejected,
	}, nil
}

// Strict is List, but any rejection or missing required parameter fails
// the request with a 400.
func (h *ParametersHandler) Strict(c echo.Context, values *params.Values) (ParamsResponse, error) {
	if err := validation.Strict(h.server.Schema, values); err != nil {
		return ParamsResponse{}, err
	}

	return ParamsResponse{
		Params:   values.Map(),
		Rejected: []errs.FieldError{},
	}, nil
}
