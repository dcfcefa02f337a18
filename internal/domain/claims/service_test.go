package claims

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/internal/platform/metrics"
)

// -- Mock Repository --

type mockRepo struct {
	member    *MemberRecord
	memberErr error
	procedure *ProcedureRecord
	procErr   error
	link      *PlanBenefitLink
	linkErr   error
	insertErr error

	inserted []*Claim
	claims   map[uuid.UUID]*Claim
}

func newMockRepo() *mockRepo {
	return &mockRepo{claims: make(map[uuid.UUID]*Claim)}
}

func (m *mockRepo) LockMember(_ context.Context, memberID int64) (*MemberRecord, error) {
	if m.memberErr != nil {
		return nil, m.memberErr
	}
	if m.member == nil || m.member.ID != memberID {
		return nil, ErrNotFound
	}
	return m.member, nil
}

func (m *mockRepo) GetProcedureByCode(_ context.Context, code string) (*ProcedureRecord, error) {
	if m.procErr != nil {
		return nil, m.procErr
	}
	if m.procedure == nil || m.procedure.Code != code {
		return nil, ErrNotFound
	}
	return m.procedure, nil
}

func (m *mockRepo) GetPlanBenefitLink(_ context.Context, planID, benefitID int64) (*PlanBenefitLink, error) {
	if m.linkErr != nil {
		return nil, m.linkErr
	}
	return m.link, nil
}

func (m *mockRepo) InsertClaim(_ context.Context, c *Claim) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	c.ID = int64(len(m.inserted) + 1)
	c.ClaimID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.inserted = append(m.inserted, c)
	m.claims[c.ClaimID] = c
	return nil
}

func (m *mockRepo) GetByPublicID(_ context.Context, claimID uuid.UUID) (*Claim, error) {
	c, ok := m.claims[claimID]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Claim, int, error) {
	return m.inserted, len(m.inserted), nil
}

func avg(v float64) *float64 { return &v }

func newTestService(repo *mockRepo) *Service {
	svc := NewService(repo, nil, metrics.NopRecorder{})
	svc.runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	return svc
}

// covered returns a repo with an active member whose plan covers the
// procedure up to 1000, with an average cost of 500.
func covered() *mockRepo {
	repo := newMockRepo()
	repo.member = &MemberRecord{ID: 7, MemberNumber: "M-0007", Active: true, PlanID: 3}
	repo.procedure = &ProcedureRecord{ID: 11, Code: "PROC-99", BenefitID: 4, AverageCost: avg(500)}
	repo.link = &PlanBenefitLink{AnnualLimit: limit(1000)}
	return repo
}

func submitInput() SubmitInput {
	return SubmitInput{MemberID: 7, ClaimAmount: 800, ProcedureCode: "PROC-99"}
}

// -- Submit --

func TestSubmit_Approved(t *testing.T) {
	repo := covered()
	svc := newTestService(repo)

	res, err := svc.Submit(context.Background(), auth.Identity{UserID: 42}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusApproved {
		t.Errorf("expected status %s, got %s", StatusApproved, res.Status)
	}
	if res.ApprovedAmount != 800 {
		t.Errorf("expected approved amount 800, got %v", res.ApprovedAmount)
	}
	if res.FraudFlag {
		t.Error("expected no fraud flag")
	}
	if res.ClaimID == uuid.Nil {
		t.Error("expected claim id to be set")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 persisted claim, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.SubmittedBy == nil || *got.SubmittedBy != 42 {
		t.Errorf("expected submitted_by 42, got %v", got.SubmittedBy)
	}
}

func TestSubmit_PartialOverLimitWithFraud(t *testing.T) {
	repo := covered()
	svc := newTestService(repo)

	in := submitInput()
	in.ClaimAmount = 1200

	res, err := svc.Submit(context.Background(), auth.Identity{UserID: 42}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusPartial {
		t.Errorf("expected status %s, got %s", StatusPartial, res.Status)
	}
	if res.ApprovedAmount != 200 {
		t.Errorf("expected approved amount 200, got %v", res.ApprovedAmount)
	}
	if !res.FraudFlag {
		t.Error("expected fraud flag for amount over twice the average cost")
	}
	// A flagged claim is still persisted with its coverage decision.
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 persisted claim, got %d", len(repo.inserted))
	}
}

func TestSubmit_NoCoverageLinkRejects(t *testing.T) {
	repo := covered()
	repo.link = nil
	svc := newTestService(repo)

	res, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusRejected {
		t.Errorf("expected status %s, got %s", StatusRejected, res.Status)
	}
	if res.ApprovedAmount != 0 {
		t.Errorf("expected approved amount 0, got %v", res.ApprovedAmount)
	}
	// Rejections are recorded like any other decision.
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 persisted claim, got %d", len(repo.inserted))
	}
}

func TestSubmit_ExcludedBenefitRejects(t *testing.T) {
	repo := covered()
	repo.link = &PlanBenefitLink{AnnualLimit: limit(1000), IsExcluded: true}
	svc := newTestService(repo)

	res, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusRejected {
		t.Errorf("expected status %s, got %s", StatusRejected, res.Status)
	}
}

func TestSubmit_MemberNotFound(t *testing.T) {
	repo := covered()
	repo.member = nil
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("expected no claim persisted for unknown member")
	}
}

func TestSubmit_InactiveMember(t *testing.T) {
	repo := covered()
	repo.member.Active = false
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive member, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("expected no claim persisted for inactive member")
	}
}

func TestSubmit_UnknownProcedure(t *testing.T) {
	repo := covered()
	repo.procedure = nil
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown procedure, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("expected no claim persisted for unknown procedure")
	}
}

func TestSubmit_MissingAverageCost(t *testing.T) {
	repo := covered()
	repo.procedure.AverageCost = nil
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("expected no claim persisted when average cost is missing")
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   SubmitInput
	}{
		{"missing member id", SubmitInput{ClaimAmount: 100, ProcedureCode: "PROC-99"}},
		{"zero amount", SubmitInput{MemberID: 7, ClaimAmount: 0, ProcedureCode: "PROC-99"}},
		{"negative amount", SubmitInput{MemberID: 7, ClaimAmount: -5, ProcedureCode: "PROC-99"}},
		{"blank procedure code", SubmitInput{MemberID: 7, ClaimAmount: 100, ProcedureCode: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := covered()
			svc := newTestService(repo)
			_, err := svc.Submit(context.Background(), auth.Identity{}, tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(repo.inserted) != 0 {
				t.Error("expected no claim persisted for invalid input")
			}
		})
	}
}

func TestSubmit_AnonymousCallerLeavesSubmittedByEmpty(t *testing.T) {
	repo := covered()
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted[0].SubmittedBy != nil {
		t.Errorf("expected nil submitted_by, got %v", *repo.inserted[0].SubmittedBy)
	}
}

func TestSubmit_InsertFailure(t *testing.T) {
	repo := covered()
	repo.insertErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if err == nil {
		t.Fatal("expected error from failed insert")
	}
	if len(repo.inserted) != 0 {
		t.Error("expected no claim recorded after failed insert")
	}
}

// -- Get / List --

func TestGet(t *testing.T) {
	repo := covered()
	svc := newTestService(repo)

	res, err := svc.Submit(context.Background(), auth.Identity{}, submitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), res.ClaimID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ClaimID != res.ClaimID {
		t.Errorf("expected claim %s, got %s", res.ClaimID, got.ClaimID)
	}

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown claim, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo := covered()
	svc := newTestService(repo)

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(context.Background(), auth.Identity{}, submitInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	claims, total, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(claims) != 3 {
		t.Errorf("expected 3 claims, got total=%d len=%d", total, len(claims))
	}
}
