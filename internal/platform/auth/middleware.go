package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	employeeIDKey contextKey = "employee_id"
	hospitalIDKey contextKey = "hospital_id"
	loginKey      contextKey = "login"
	tokenJTIKey   contextKey = "token_jti"
	tokenExpKey   contextKey = "token_exp"
)

// Middleware authenticates requests with a bearer token issued by the given
// TokenIssuer, rejecting revoked tokens, and stashes the caller's identity on
// the request context.
func Middleware(issuer *TokenIssuer, revocations *TokenRevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if revocations != nil && revocations.IsRevoked(claims.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			employeeID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, employeeIDKey, employeeID)
			ctx = context.WithValue(ctx, loginKey, claims.Login)
			ctx = context.WithValue(ctx, tokenJTIKey, claims.ID)
			if claims.ExpiresAt != nil {
				ctx = context.WithValue(ctx, tokenExpKey, claims.ExpiresAt.Time)
			}
			if claims.HospitalID != "" {
				if hid, err := uuid.Parse(claims.HospitalID); err == nil {
					ctx = context.WithValue(ctx, hospitalIDKey, hid)
				}
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireHospital rejects authenticated employees that have not been assigned
// to a hospital yet. They see a pending-approval response for every
// hospital-scoped operation.
func RequireHospital() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := HospitalIDFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusForbidden, "pending approval: no hospital assigned")
			}
			return next(c)
		}
	}
}

// EmployeeIDFromContext retrieves the authenticated employee's ID.
func EmployeeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(employeeIDKey).(uuid.UUID)
	return id, ok
}

// HospitalIDFromContext retrieves the caller's hospital scope.
func HospitalIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(hospitalIDKey).(uuid.UUID)
	return id, ok
}

// LoginFromContext retrieves the caller's login name, or "" when the request
// is unauthenticated.
func LoginFromContext(ctx context.Context) string {
	login, _ := ctx.Value(loginKey).(string)
	return login
}

// TokenFromContext retrieves the presented token's JTI and natural expiry,
// for revocation on logout.
func TokenFromContext(ctx context.Context) (jti string, exp time.Time, ok bool) {
	jti, ok = ctx.Value(tokenJTIKey).(string)
	exp, _ = ctx.Value(tokenExpKey).(time.Time)
	return jti, exp, ok
}
