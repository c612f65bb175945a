package mkb10

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/mkb10-search", h.Search)
}

type searchInput struct {
	Query string `json:"query"`
}

func (h *Handler) Search(c echo.Context) error {
	var in searchInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	suggestions, err := h.client.Suggest(c.Request().Context(), query)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": ue.Error()})
		}
		return err
	}
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}
