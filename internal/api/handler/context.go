package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// identity is the resolved caller injected by the Auth middleware.
type identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// ctxIdentity extracts the caller identity and performs a fast-fail check
// before any service call: a missing subject means the middleware did not run
// or the token carried no usable identity — reject with 401.
func ctxIdentity(c echo.Context) (identity, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)

	return identity{ID: id, Name: name, Email: email, Role: role}, nil
}
