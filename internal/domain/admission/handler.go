package admission

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

// RegisterRoutes mounts admission routes on the hospital-scoped group.
func (h *Handler) RegisterRoutes(scoped *echo.Group) {
	scoped.POST("/patients/:id/admissions", h.Create)
	scoped.GET("/patients/:id/admissions", h.ListByPatient)
	scoped.GET("/admissions/:id", h.Get)
	scoped.POST("/admissions/:id/discharge", h.Discharge)
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
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "patient")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Create(c.Request().Context(), hid, patientID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "patient")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "admission")
	}
	a, err := h.svc.Get(c.Request().Context(), id, hid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "admission")
		}
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Discharge(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "admission")
	}
	a, err := h.svc.Discharge(c.Request().Context(), id, hid)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return httperr.NotFound(c, "admission")
		case errors.Is(err, ErrAlreadyDischarged):
			return c.JSON(http.StatusConflict, map[string]string{"error": "admission already discharged"})
		}
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	hid, err := callerHospital(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "patient")
	}
	summaries, err := h.svc.ListByPatient(c.Request().Context(), patientID, hid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "patient")
		}
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}
