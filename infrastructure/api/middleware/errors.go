package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/infrastructure/api/jsonapi"
	infrasearch "github.com/helixml/modelsearch/infrastructure/search"
	"github.com/helixml/modelsearch/internal/config"
)

// ErrBadRequest indicates a malformed request parameter.
var ErrBadRequest = errors.New("bad request")

// ParamError is a malformed query parameter. It matches ErrBadRequest.
type ParamError struct {
	Param  string
	Reason string
}

// NewParamError returns a ParamError for param.
func NewParamError(param, reason string) *ParamError {
	return &ParamError{Param: param, Reason: reason}
}

func (e *ParamError) Error() string {
	return ErrBadRequest.Error() + ": " + e.Param + ": " + e.Reason
}

// Unwrap returns ErrBadRequest.
func (e *ParamError) Unwrap() error { return ErrBadRequest }

// StatusFor maps an error to its HTTP status and title.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, config.ErrUnknownTable):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, ErrBadRequest), errors.Is(err, search.ErrConfiguration):
		return http.StatusBadRequest, "Invalid Search"
	case errors.Is(err, infrasearch.ErrFulltextUnsupported):
		return http.StatusUnprocessableEntity, "Fulltext Unsupported"
	case errors.Is(err, service.ErrClientClosed):
		return http.StatusServiceUnavailable, "Unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// WriteError writes a JSON:API formatted error response. Server errors are
// logged; the detail of an internal error is not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, title := StatusFor(err)
	detail := err.Error()
	correlationID := GetCorrelationID(r.Context())

	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request error",
			slog.String("correlation_id", correlationID),
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("path", r.URL.Path),
		)
		if status == http.StatusInternalServerError {
			detail = ""
		}
	}

	apiErr := jsonapi.NewError(strconv.Itoa(status), title, detail)
	apiErr.ID = correlationID
	var paramErr *ParamError
	if errors.As(err, &paramErr) {
		apiErr.Source = &jsonapi.ErrorSource{Parameter: paramErr.Param}
	}

	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonapi.NewErrorResponse(apiErr))
}

// WriteJSON writes a JSON:API response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
