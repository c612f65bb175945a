// Package httperr translates service-layer errors into JSON responses.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/pkg/validation"
)

// Respond writes the JSON body for a service error. Field validation errors
// become a 422 with a per-field error map; anything else is returned as-is
// so echo's error handler produces a 500. Handlers map their own sentinel
// errors (not found, conflicts) before calling this.
func Respond(c echo.Context, err error) error {
	if errs, ok := validation.AsErrors(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
	}
	return err
}

// NotFound is the uniform 404 body. Out-of-scope records use the same
// response as absent ones so hospital scoping never leaks existence.
func NotFound(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": resource + " not found"})
}
