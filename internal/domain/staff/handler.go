package staff

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/internal/platform/httperr"
	"github.com/medjournal/journal/pkg/pagination"
)

type Handler struct {
	svc         *Service
	issuer      *auth.TokenIssuer
	revocations *auth.TokenRevocationStore
}

func NewHandler(svc *Service, issuer *auth.TokenIssuer, revocations *auth.TokenRevocationStore) *Handler {
	return &Handler{svc: svc, issuer: issuer, revocations: revocations}
}

// RegisterRoutes mounts registration and login on the public group, the
// session routes on the authenticated group, and employee administration on
// the admin group.
func (h *Handler) RegisterRoutes(public, authed, admin *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	authed.POST("/logout", h.Logout)
	authed.GET("/home", h.Home)

	admin.GET("/employees", h.List)
	admin.GET("/employees/:id", h.Get)
	admin.PUT("/employees/:id", h.Update)
	admin.DELETE("/employees/:id", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	emp, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, emp)
}

type loginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token    string    `json:"token"`
	Employee *Employee `json:"employee"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	emp, err := h.svc.Authenticate(c.Request().Context(), in.Identifier, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	token, _, err := h.issuer.Issue(emp.ID, emp.HospitalID, emp.Login, emp.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Employee: emp})
}

func (h *Handler) Logout(c echo.Context) error {
	jti, exp, ok := auth.TokenFromContext(c.Request().Context())
	if ok && h.revocations != nil {
		h.revocations.Revoke(jti, exp)
	}
	return c.NoContent(http.StatusNoContent)
}

// Home serves the caller's profile with hospital and department names. An
// account still waiting for a hospital assignment sees its profile with the
// pending flag set.
func (h *Handler) Home(c echo.Context) error {
	employeeID, ok := auth.EmployeeIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	profile, err := h.svc.Profile(c.Request().Context(), employeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile":          profile,
		"pending_approval": profile.Employee.HospitalID == nil,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "employee")
	}
	profile, err := h.svc.Profile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "employee")
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "employee")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	emp, err := h.svc.UpdateEmployee(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "employee")
		}
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.NotFound(c, "employee")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "employee")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	employees, total, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	if employees == nil {
		employees = []*Employee{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(employees, total, p.Limit, p.Offset))
}
