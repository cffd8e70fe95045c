// Package handler is the HTTP layer between the router and the parameter
// validator.
//
// Query endpoints are wrapped by HandleQuery/HandleText, which parse and
// validate the query string before the endpoint runs; endpoints only ever
// see declared parameters that passed their type check.
package handler

import (
	"github.com/deppfellow/go-parameters/internal/server"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Parameters *ParametersHandler
}

func NewHandlers(s *server.Server) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Parameters: NewParametersHandler(s),
	}
}
