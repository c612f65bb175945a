package healthnote

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

// RegisterRoutes mounts the note endpoints on the hospital-scoped group.
func (h *Handler) RegisterRoutes(scoped *echo.Group) {
	scoped.GET("/admissions/:id/notes", h.List)
	scoped.POST("/admissions/:id/notes", h.Add)
	scoped.GET("/notes/:id", h.Get)
	scoped.GET("/admissions/:id/analytics", h.Analytics)
}

func callerHospital(c echo.Context) (uuid.UUID, error) {
	hospitalID, ok := auth.HospitalIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "account pending hospital approval")
	}
	return hospitalID, nil
}

func (h *Handler) Add(c echo.Context) error {
	hospitalID, err := callerHospital(c)
	if err != nil {
		return err
	}
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "admission")
	}

	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.svc.Add(c.Request().Context(), admissionID, hospitalID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "admission")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) Get(c echo.Context) error {
	hospitalID, err := callerHospital(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "note")
	}
	n, err := h.svc.Get(c.Request().Context(), id, hospitalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "note")
		}
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) List(c echo.Context) error {
	hospitalID, err := callerHospital(c)
	if err != nil {
		return err
	}
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "admission")
	}
	notes, err := h.svc.List(c.Request().Context(), admissionID, hospitalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "admission")
		}
		return err
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) Analytics(c echo.Context) error {
	hospitalID, err := callerHospital(c)
	if err != nil {
		return err
	}
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "admission")
	}
	t, err := h.svc.Trend(c.Request().Context(), admissionID, hospitalID, c.QueryParam("metric"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "admission")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
