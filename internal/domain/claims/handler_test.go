package claims

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

var errTestDB = errors.New("db failure")

func asHTTPError(err error, target **echo.HTTPError) bool {
	return errors.As(err, target)
}

func newTestHandler(repo *mockRepo) *Handler {
	return NewHandler(newTestService(repo))
}

func TestHandler_SubmitClaim(t *testing.T) {
	repo := covered()
	h := newTestHandler(repo)
	e := echo.New()

	body := `{"member_id":7,"claim_amount":800,"procedure_code":"PROC-99","diagnosis_code":"J06.9"}`
	req := httptest.NewRequest(http.MethodPost, "/claims", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 42}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitClaim(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.Status != StatusApproved {
		t.Errorf("expected status %s, got %s", StatusApproved, res.Status)
	}
	if res.ClaimID == uuid.Nil {
		t.Error("expected claim id in response")
	}
	if got := repo.inserted[0]; got.DiagnosisCode == nil || *got.DiagnosisCode != "J06.9" {
		t.Errorf("expected diagnosis code persisted, got %v", got.DiagnosisCode)
	}
}

func TestHandler_SubmitClaim_ValidationError(t *testing.T) {
	h := newTestHandler(covered())
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/claims", strings.NewReader(`{"member_id":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.SubmitClaim(c)
	var httpErr *echo.HTTPError
	if !asHTTPError(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_SubmitClaim_MemberNotFound(t *testing.T) {
	repo := covered()
	repo.member = nil
	h := newTestHandler(repo)
	e := echo.New()

	body := `{"member_id":7,"claim_amount":800,"procedure_code":"PROC-99"}`
	req := httptest.NewRequest(http.MethodPost, "/claims", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.SubmitClaim(c)
	var httpErr *echo.HTTPError
	if !asHTTPError(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_SubmitClaim_RepoFailureHidesDetail(t *testing.T) {
	repo := covered()
	repo.linkErr = errTestDB
	h := newTestHandler(repo)
	e := echo.New()

	body := `{"member_id":7,"claim_amount":800,"procedure_code":"PROC-99"}`
	req := httptest.NewRequest(http.MethodPost, "/claims", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.SubmitClaim(c)
	var httpErr *echo.HTTPError
	if !asHTTPError(err, &httpErr) || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); msg != "internal server error" {
		t.Errorf("expected generic error message, got %q", httpErr.Message)
	}
}

func TestHandler_GetClaim(t *testing.T) {
	repo := covered()
	h := newTestHandler(repo)
	svc := newTestService(repo)
	e := echo.New()

	res, err := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), auth.Identity{}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/claims/"+res.ClaimID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(res.ClaimID.String())

	if err := h.GetClaim(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got LookupResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ID != res.ClaimID {
		t.Errorf("expected claim %s, got %s", res.ClaimID, got.ID)
	}
	if got.Status != res.Status {
		t.Errorf("expected status %s, got %s", res.Status, got.Status)
	}

	// The read shape exposes the public id and status only.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding raw response: %v", err)
	}
	for _, field := range []string{"member_id", "procedure_id", "claim_amount", "submitted_by", "claim_id"} {
		if _, ok := raw[field]; ok {
			t.Errorf("field %q must not appear in the lookup response", field)
		}
	}
	if _, ok := raw["id"]; !ok {
		t.Error("lookup response must carry the public uuid under \"id\"")
	}
}

func TestHandler_GetClaim_BadID(t *testing.T) {
	h := newTestHandler(covered())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/claims/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetClaim(c)
	var httpErr *echo.HTTPError
	if !asHTTPError(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ListClaims(t *testing.T) {
	repo := covered()
	h := newTestHandler(repo)
	svc := newTestService(repo)
	e := echo.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), auth.Identity{}, submitInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/claims?limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListClaims(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var page struct {
		Data  []Claim `json:"data"`
		Total int     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 2 {
		t.Errorf("expected 2 claims, got total=%d len=%d", page.Total, len(page.Data))
	}
}
