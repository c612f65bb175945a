package department

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the staff-facing views on the hospital-scoped group
// and administrative CRUD on the admin group. The listing shows the caller's
// own hospital: it backs the department choices for admissions and employee
// assignments.
func (h *Handler) RegisterRoutes(scoped, admin *echo.Group) {
	scoped.GET("/departments", h.List)
	scoped.GET("/departments/:id", h.Detail)

	admin.POST("/departments", h.Create)
	admin.PUT("/departments/:id", h.Update)
	admin.DELETE("/departments/:id", h.Delete)
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "department")
	}
	callerHospital, ok := auth.HospitalIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "pending approval: no hospital assigned")
	}
	detail, err := h.svc.Detail(c.Request().Context(), id, callerHospital)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "department")
		}
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) Create(c echo.Context) error {
	var d Department
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &d); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "department")
	}
	var d Department
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "department")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "department")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "department")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	callerHospital, ok := auth.HospitalIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "pending approval: no hospital assigned")
	}
	depts, err := h.svc.ListByHospital(c.Request().Context(), callerHospital)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, depts)
}
