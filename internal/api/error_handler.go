package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	Timestamp string              `json:"timestamp"`
	Path      string              `json:"path"`
	Errors    []domain.FieldError `json:"errors,omitempty"`
	Detail    string              `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to the status and code carried by their Kind.
//   - Maps store and connectivity failures to 409/400/503.
//   - Logs unexpected errors internally without leaking details to the client.
//
// The error chain is included as "detail" only outside production.
func NewHTTPErrorHandler(log zerolog.Logger, env string) echo.HTTPErrorHandler {
	showDetail := !strings.EqualFold(env, "production")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		de := resolveError(err)
		status := de.Kind.Status()
		if he, ok := asEchoError(err); ok && de.Kind == domain.KindInternal {
			status = he.Code
		}

		logError(log, c, err, status)

		resp := errorResponse{
			Message:   de.Message,
			Code:      de.Code,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.Request().URL.Path,
			Errors:    de.Fields,
		}
		if showDetail && status >= http.StatusInternalServerError {
			resp.Detail = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

// resolveError classifies err into a domain error. Echo errors that have no
// domain equivalent come back as KindInternal with their own status kept by
// the caller.
func resolveError(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Code == "" {
			c := *de
			c.Code = de.Kind.Code()
			return &c
		}
		return de
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &domain.Error{Kind: domain.KindConflict, Code: "DUPLICATE_ENTRY", Message: "resource already exists"}
		case "23503":
			return &domain.Error{Kind: domain.KindValidation, Code: "INVALID_REFERENCE", Message: "referenced resource does not exist"}
		case "28000", "28P01":
			return &domain.Error{Kind: domain.KindUnavailable, Code: "DATABASE_AUTH_FAILED", Message: "database unavailable"}
		}
	}

	if isConnectionError(err) {
		return &domain.Error{Kind: domain.KindUnavailable, Code: "DATABASE_UNAVAILABLE", Message: "database unavailable"}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.Error{Kind: domain.KindUnavailable, Code: "REQUEST_TIMEOUT", Message: "request timed out"}
	}

	if he, ok := asEchoError(err); ok {
		return fromEchoError(he)
	}

	return &domain.Error{Kind: domain.KindInternal, Code: domain.KindInternal.Code(), Message: "internal server error"}
}

func asEchoError(err error) (*echo.HTTPError, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// fromEchoError covers router and binder errors. A route 404 carries its own
// code so clients can tell it apart from a missing resource.
func fromEchoError(he *echo.HTTPError) *domain.Error {
	msg := fmt.Sprintf("%v", he.Message)
	switch he.Code {
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.KindNotFound, Code: "ROUTE_NOT_FOUND", Message: "route not found"}
	case http.StatusMethodNotAllowed:
		return &domain.Error{Kind: domain.KindInternal, Code: "METHOD_NOT_ALLOWED", Message: msg}
	case http.StatusUnauthorized:
		return &domain.Error{Kind: domain.KindUnauthorized, Code: domain.KindUnauthorized.Code(), Message: msg}
	case http.StatusForbidden:
		return &domain.Error{Kind: domain.KindForbidden, Code: domain.KindForbidden.Code(), Message: msg}
	case http.StatusTooManyRequests:
		return &domain.Error{Kind: domain.KindRateLimited, Code: domain.KindRateLimited.Code(), Message: msg}
	case http.StatusServiceUnavailable:
		return &domain.Error{Kind: domain.KindUnavailable, Code: domain.KindUnavailable.Code(), Message: msg}
	}
	if he.Code >= 400 && he.Code < 500 {
		return &domain.Error{Kind: domain.KindInternal, Code: statusCode(he.Code), Message: msg}
	}
	return &domain.Error{Kind: domain.KindInternal, Code: domain.KindInternal.Code(), Message: "internal server error"}
}

// statusCode turns a status text into an upper snake case code, e.g.
// "Request Entity Too Large" becomes REQUEST_ENTITY_TOO_LARGE.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func logError(log zerolog.Logger, c echo.Context, err error, status int) {
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Int("status", status).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
}
