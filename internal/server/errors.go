package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"go.uber.org/zap"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respond(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{Success: true, Data: data, Message: message})
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s: required", field))
		case "email":
			parts = append(parts, fmt.Sprintf("%s: invalid email '%v'", field, fe.Value()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s: must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed '%s' check", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// errorStatus maps an error onto a status code and a client-facing message.
func errorStatus(err error) (int, string) {
	var he *echo.HTTPError
	var ve validator.ValidationErrors
	var de *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, validationMessage(ve)
	case errors.As(err, &de):
		return http.StatusBadRequest, de.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, msg
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// ErrorHandler writes every handler error as an Envelope. Server errors
// are logged with the request line; their details never reach the client.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := errorStatus(err)
		if code >= http.StatusInternalServerError {
			log.Errorw("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, zap.Error(err))
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, Envelope{Success: false, Error: msg})
		}
		if werr != nil {
			log.Errorw("writing error response", zap.Error(werr))
		}
	}
}
