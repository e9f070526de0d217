package server

import (
	"crypto/subtle"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards operator endpoints with a static key. An empty
// configured key rejects every request.
func AdminKeyMiddleware(adminKey string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + AdminKeyHeader,
		Validator: func(key string, c echo.Context) (bool, error) {
			if adminKey == "" {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1, nil
		},
	})
}

// NewValidator reports json field names in validation errors.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func bindForm(c echo.Context, v *validator.Validate, form interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, form); err != nil {
		return err
	}
	return v.Struct(form)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "invalid id '%s'", c.Param("id"))
	}
	return id, nil
}

func emailParam(c echo.Context) string {
	v := c.Param("email")
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	return domain.NormalizeEmail(v)
}
