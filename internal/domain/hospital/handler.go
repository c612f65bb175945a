package hospital

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/internal/platform/httperr"
	"github.com/medjournal/journal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts administrative hospital management. These routes sit
// behind authentication but not hospital scoping.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/hospitals", h.List)
	api.POST("/hospitals", h.Create)
	api.GET("/hospitals/:id", h.Get)
	api.PUT("/hospitals/:id", h.Update)
	api.DELETE("/hospitals/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &hosp); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "hospital")
	}
	hosp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "hospital")
		}
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "hospital")
	}
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp.ID = id
	if err := h.svc.Update(c.Request().Context(), &hosp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "hospital")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "hospital")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "hospital")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	hospitals, total, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	if hospitals == nil {
		hospitals = []*Hospital{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(hospitals, total, p.Limit, p.Offset))
}
