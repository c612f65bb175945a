package patient

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/internal/platform/httperr"
	"github.com/medjournal/journal/pkg/pagination"
	"github.com/medjournal/journal/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts patient routes on the hospital-scoped group.
func (h *Handler) RegisterRoutes(scoped *echo.Group) {
	scoped.GET("/patients", h.Search)
	scoped.POST("/patients", h.Create)
	scoped.GET("/patients/:id", h.Get)
	scoped.PUT("/patients/:id", h.Edit)
}

func callerHospital(c echo.Context) (uuid.UUID, error) {
	hid, ok := auth.HospitalIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "pending approval: no hospital assigned")
	}
	return hid, nil
}

func (h *Handler) Create(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.Request().Context(), hid, in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "patient")
	}
	overview, err := h.svc.Overview(c.Request().Context(), id, hid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "patient")
		}
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *Handler) Edit(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "patient")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Edit(c.Request().Context(), id, hid, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "patient")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Search(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	f := Filter{
		LastName:   c.QueryParam("last_name"),
		FirstName:  c.QueryParam("first_name"),
		MiddleName: c.QueryParam("middle_name"),
		SNILS:      c.QueryParam("snils"),
	}
	if bd := c.QueryParam("birth_date"); bd != "" {
		parsed, err := time.Parse("2006-01-02", bd)
		if err != nil {
			return httperr.Respond(c, validation.Errors{"birth_date": "birth_date must be YYYY-MM-DD"})
		}
		f.BirthDate = &parsed
	}

	p := pagination.FromContext(c)
	patients, total, err := h.svc.Search(c.Request().Context(), hid, f, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}
