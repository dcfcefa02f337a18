package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

func TestAudit_RecordsClaimAccess(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/claims", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 7, TokenID: "tok-1"}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-123")

	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	handler := Audit(logger, recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorded) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorded))
	}
	entry := recorded[0]
	if entry.UserID != 7 {
		t.Errorf("expected user id 7, got %d", entry.UserID)
	}
	if entry.Action != "create" {
		t.Errorf("expected action create, got %s", entry.Action)
	}
	if entry.Resource != "claims" {
		t.Errorf("expected resource claims, got %s", entry.Resource)
	}
	if entry.RequestID != "req-123" {
		t.Errorf("expected request id req-123, got %s", entry.RequestID)
	}
}

func TestAudit_SkipsNonAuditablePaths(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	handler := Audit(logger, recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 0 {
		t.Errorf("expected no audit entries for /health, got %d", len(recorded))
	}
}

func TestAuditResource(t *testing.T) {
	cases := map[string]string{
		"/claims":           "claims",
		"/claims/abc":       "claims",
		"/members/12":       "members",
		"/catalog/plans/3":  "plans",
		"/catalog/benefits": "benefits",
	}
	for path, want := range cases {
		if got := auditResource(path); got != want {
			t.Errorf("auditResource(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestHTTPMethodToAction(t *testing.T) {
	cases := map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodDelete: "delete",
		http.MethodOptions: "other",
	}
	for method, want := range cases {
		if got := httpMethodToAction(method); got != want {
			t.Errorf("httpMethodToAction(%q) = %q, want %q", method, got, want)
		}
	}
}
