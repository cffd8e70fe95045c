package handler

import (
	"math"
	"net/http"

	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler describes the declared parameters as OpenAPI 3 query
// parameter objects, so API tooling can render the allow-list.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// OpenAPIParameter is an OpenAPI "Parameter Object" for a query parameter.
type OpenAPIParameter struct {
	Name     string        `json:"name"`
	In       string        `json:"in"`
	Required bool          `json:"required"`
	Schema   OpenAPISchema `json:"schema"`

	// Rule is the validator tag applied after type coercion.
	Rule string `json:"x-rule,omitempty"`
}

// OpenAPISchema is the subset of the OpenAPI "Schema Object" a parameter
// kind maps to.
type OpenAPISchema struct {
	Type    string `json:"type"`
	Format  string `json:"format,omitempty"`
	Minimum any    `json:"minimum,omitempty"`
	Maximum any    `json:"maximum,omitempty"`
}

// ServeParameters writes the parameter objects in declaration order.
func (h *OpenAPIHandler) ServeParameters(c echo.Context) error {
	// The schema can change between deploys; don't let clients keep old docs.
	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"parameters": OpenAPIParameters(h.server.Schema),
	})
}

// OpenAPIParameters converts schema into OpenAPI parameter objects.
func OpenAPIParameters(schema *params.Schema) []OpenAPIParameter {
	fields := schema.Fields()
	out := make([]OpenAPIParameter, 0, len(fields))

	for _, f := range fields {
		out = append(out, OpenAPIParameter{
			Name:     f.Name,
			In:       "query",
			Required: f.Required,
			Schema:   openAPISchema(f.Kind),
			Rule:     f.Rule,
		})
	}

	return out
}

func openAPISchema(kind params.Kind) OpenAPISchema {
	switch kind.Type {
	case params.TypeUnsigned:
		var maximum uint64 = math.MaxUint64
		if kind.Bits < 64 {
			maximum = 1<<uint(kind.Bits) - 1
		}
		// a non-nil interface survives omitempty, so minimum 0 is still emitted
		return OpenAPISchema{Type: "integer", Format: formatFor(kind.Bits), Minimum: uint64(0), Maximum: maximum}

	case params.TypeSigned:
		limit := int64(1) << uint(kind.Bits-1)
		if kind.Bits == 64 {
			return OpenAPISchema{Type: "integer", Format: "int64", Minimum: int64(math.MinInt64), Maximum: int64(math.MaxInt64)}
		}
		return OpenAPISchema{Type: "integer", Format: formatFor(kind.Bits), Minimum: -limit, Maximum: limit - 1}

	default:
		return OpenAPISchema{Type: "string"}
	}
}

func formatFor(bits int) string {
	if bits <= 32 {
		return "int32"
	}
	return "int64"
}
