package staff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medjournal/journal/internal/platform/auth"
)

func newTestHandler() (*Handler, *Service, *auth.TokenRevocationStore) {
	svc, _ := newTestService()
	issuer := auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	store := auth.NewTokenRevocationStore()
	return NewHandler(svc, issuer, store), svc, store
}

func TestHandlerRegister(t *testing.T) {
	h, _, store := newTestHandler()
	defer store.Close()
	e := echo.New()

	body := `{"full_name":"Иванов Петр","position":"Врач","employee_number":"777",
		"phone_number":"+79161234567","password":"str0ng-pass","password_confirm":"str0ng-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var emp Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &emp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if emp.Login != "ivanov_petr" {
		t.Errorf("expected derived login in response, got %q", emp.Login)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not leak password material")
	}
}

func TestHandlerRegister_ValidationErrors(t *testing.T) {
	h, _, store := newTestHandler()
	defer store.Close()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"full_name":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(body.Errors) == 0 {
		t.Error("expected field errors in response")
	}
}

func TestHandlerLogin(t *testing.T) {
	h, svc, store := newTestHandler()
	defer store.Close()
	e := echo.New()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"identifier":"12345","password":"str0ng-pass"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the login response")
	}
}

func TestHandlerLogin_BadCredentials(t *testing.T) {
	h, _, store := newTestHandler()
	defer store.Close()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"identifier":"nobody","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandlerLogout_RevokesToken(t *testing.T) {
	h, svc, store := newTestHandler()
	defer store.Close()
	e := echo.New()

	emp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, claims, err := h.issuer.Issue(emp.ID, nil, emp.Login, emp.FullName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Run through the auth middleware so the token lands in context.
	chain := auth.Middleware(h.issuer, store)(h.Logout)
	if err := chain(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !store.IsRevoked(claims.ID) {
		t.Error("expected the token to be revoked after logout")
	}
}
