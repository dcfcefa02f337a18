package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/notify"
)

type recordingSender struct {
	bodies []string
}

func (s *recordingSender) Send(_ context.Context, _, _, body string) error {
	s.bodies = append(s.bodies, body)
	return nil
}

func newTestHandler(repo *mockRepo) *Handler {
	return NewHandler(newTestService(repo), zerolog.Nop(), nil)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	repo := newMockRepo()
	h := newTestHandler(repo)
	e := echo.New()

	body := `{"name":"Jane Wanjiku","email":"jane@example.com","phone_number":"0712345678","password":"correct horse battery"}`
	c, rec := postJSON(e, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if u.Activated {
		t.Error("expected deactivated account in response")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password material must not appear in the response")
	}
	if strings.Contains(rec.Body.String(), "verification") {
		t.Error("verification code must not appear in the response")
	}
}

func TestHandler_Register_DispatchesVerificationCode(t *testing.T) {
	repo := newMockRepo()
	sender := &recordingSender{}
	h := NewHandler(newTestService(repo), zerolog.Nop(), notify.NewDispatcher(sender, zerolog.Nop()))
	e := echo.New()

	body := `{"name":"Jane Wanjiku","email":"jane@example.com","phone_number":"0712345678","password":"correct horse battery"}`
	c, rec := postJSON(e, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(sender.bodies) != 1 {
		t.Fatalf("expected 1 dispatched message, got %d", len(sender.bodies))
	}

	// The delivered code must be the one the account verifies with.
	var code string
	for _, f := range strings.Fields(sender.bodies[0]) {
		trimmed := strings.TrimSuffix(f, ".")
		if len(trimmed) == 6 && strings.IndexFunc(trimmed, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			code = trimmed
			break
		}
	}
	if code == "" {
		t.Fatalf("no 6-digit code found in message %q", sender.bodies[0])
	}

	verifyBody := `{"email":"jane@example.com","code":"` + code + `"}`
	c, rec = postJSON(e, "/auth/verify", verifyBody)
	if err := h.Verify(c); err != nil {
		t.Fatalf("verify with delivered code: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 verifying with delivered code, got %d", rec.Code)
	}
}

func TestHandler_Register_Conflict(t *testing.T) {
	repo := newMockRepo()
	h := newTestHandler(repo)
	e := echo.New()

	body := `{"name":"Jane","email":"jane@example.com","password":"correct horse battery"}`
	c, _ := postJSON(e, "/auth/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ = postJSON(e, "/auth/register", body)
	err := h.Register(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	h := newTestHandler(newMockRepo())
	e := echo.New()

	c, _ := postJSON(e, "/auth/login", `{"email":"nobody@example.com","password":"whatever"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_Login_NotActivated(t *testing.T) {
	repo := newMockRepo()
	h := newTestHandler(repo)
	svc := newTestService(repo)
	e := echo.New()

	if _, _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := postJSON(e, "/auth/login", `{"email":"jane@example.com","password":"correct horse battery"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_Verify(t *testing.T) {
	repo := newMockRepo()
	h := newTestHandler(repo)
	svc := newTestService(repo)
	e := echo.New()

	u, code, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := postJSON(e, "/auth/verify", `{"email":"`+u.Email+`","code":"`+code+`"}`)
	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !repo.users[u.ID].Activated {
		t.Error("expected account to be activated")
	}
}

func TestHandler_FederatedLogin_MissingToken(t *testing.T) {
	h := newTestHandler(newMockRepo())
	e := echo.New()

	c, _ := postJSON(e, "/auth/federated", `{}`)
	err := h.FederatedLogin(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
