package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type stubChecker struct {
	active map[int64]bool
	err    error
}

func (s *stubChecker) IsActiveUser(_ context.Context, userID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.active[userID], nil
}

func runMiddleware(t *testing.T, header string, checker ActiveUserChecker) (*httptest.ResponseRecorder, Identity, bool, error) {
	t.Helper()
	issuer := NewTokenIssuer(testSigningKey, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/claims", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID Identity
	var gotOK bool
	handler := RequireUser(issuer, checker, nil)(func(c echo.Context) error {
		gotID, gotOK = IdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	return rec, gotID, gotOK, err
}

func TestRequireUser_MissingHeader(t *testing.T) {
	_, _, _, err := runMiddleware(t, "", &stubChecker{})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireUser_BadFormat(t *testing.T) {
	_, _, _, err := runMiddleware(t, "Basic abc123", &stubChecker{})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireUser_InvalidToken(t *testing.T) {
	_, _, _, err := runMiddleware(t, "Bearer garbage", &stubChecker{})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireUser_InactiveAccount(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	token, _ := issuer.Issue(9)

	_, _, _, err := runMiddleware(t, "Bearer "+token, &stubChecker{active: map[int64]bool{}})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireUser_CheckerError(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	token, _ := issuer.Issue(9)

	_, _, _, err := runMiddleware(t, "Bearer "+token, &stubChecker{err: errors.New("db down")})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestRequireUser_ActiveAccount(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	token, _ := issuer.Issue(9)

	rec, id, ok, err := runMiddleware(t, "Bearer "+token, &stubChecker{active: map[int64]bool{9: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("expected identity on request context")
	}
	if id.UserID != 9 {
		t.Errorf("expected user id 9, got %d", id.UserID)
	}
	if id.TokenID == "" {
		t.Error("expected token id on identity")
	}
}

func TestRequireUser_Skipper(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/health")

	handler := RequireUser(issuer, &stubChecker{}, Skipper)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestIsPublicPath(t *testing.T) {
	if !IsPublicPath("/auth/login") {
		t.Error("expected /auth/login to be public")
	}
	if IsPublicPath("/claims") {
		t.Error("expected /claims to require auth")
	}
}
