package handler

import (
	"time"

	"github.com/deppfellow/go-parameters/internal/middleware"
	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base type embedded by concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// QueryHandlerFunc is an endpoint that receives the validated query
// parameters of the request.
type QueryHandlerFunc[Res any] func(c echo.Context, values *params.Values) (Res, error)

// ResponseHandler writes a successful handler result.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the handler type in logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes the result as JSON.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by EnhanceTracing
}

// TextResponseHandler writes a string result as text/plain.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result interface{}) error {
	body, _ := result.(string)
	return c.String(h.status, body)
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	if body, ok := result.(string); ok {
		txn.AddAttribute("response.size_bytes", len(body))
	}
}

// handleQuery is the shared execution pipeline for query endpoints:
//   - parse the raw query string and validate it against schema
//   - log and trace accepted and rejected parameters
//   - run the endpoint and write its result with responseHandler
//
// Undeclared parameters never reach the endpoint. Rejected ones are only
// logged here; the endpoint decides whether they matter.
func handleQuery(
	h Handler,
	c echo.Context,
	schema *params.Schema,
	handler func(c echo.Context, values *params.Values) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	raw := params.ParseQuery(c.Request().URL.RawQuery)

	values, err := params.Validate(schema, raw)
	if err != nil {
		logger.Error().Err(err).Msg("parameter validation could not run")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}

	validationDuration := time.Since(validationStart)
	rejections := values.Rejections()

	for _, r := range rejections {
		logger.Warn().
			Str("param", r.Name).
			Err(r.Err).
			Msg("parameter rejected")
	}

	if txn != nil {
		txn.AddAttribute("params.received", len(raw))
		txn.AddAttribute("params.accepted", values.Len())
		txn.AddAttribute("params.rejected", len(rejections))
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	if app := h.server.LoggerService.GetApplication(); app != nil {
		for _, r := range rejections {
			app.RecordCustomEvent("ParameterRejected", map[string]interface{}{
				"route":  route,
				"param":  r.Name,
				"reason": r.Err.Error(),
			})
		}
	}

	logger.Debug().
		Int("received", len(raw)).
		Int("accepted", values.Len()).
		Int("rejected", len(rejections)).
		Dur("validation_duration", validationDuration).
		Msg("parameters validated")

	handlerStart := time.Now()
	result, err := handler(c, values)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// HandleQuery wraps a typed query endpoint and writes its result as JSON.
//
// A nil schema selects the server's process-wide schema.
//
//	router.GET("/v1/params", handler.HandleQuery(h, nil, h.List, http.StatusOK))
func HandleQuery[Res any](
	h Handler,
	schema *params.Schema,
	handler QueryHandlerFunc[Res],
	status int,
) echo.HandlerFunc {
	if schema == nil {
		schema = h.server.Schema
	}

	return func(c echo.Context) error {
		return handleQuery(h, c, schema, func(c echo.Context, values *params.Values) (interface{}, error) {
			return handler(c, values)
		}, JSONResponseHandler{status: status})
	}
}

// HandleText is HandleQuery for endpoints that answer in plain text.
func HandleText(
	h Handler,
	schema *params.Schema,
	handler QueryHandlerFunc[string],
	status int,
) echo.HandlerFunc {
	if schema == nil {
		schema = h.server.Schema
	}

	return func(c echo.Context) error {
		return handleQuery(h, c, schema, func(c echo.Context, values *params.Values) (interface{}, error) {
			return handler(c, values)
		}, TextResponseHandler{status: status})
	}
}
