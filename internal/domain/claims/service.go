package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/internal/platform/db"
	"github.com/claimdesk/claimdesk/internal/platform/metrics"
)

// ErrInvalidInput is returned when a submission fails validation before any
// database work happens.
var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo    Repository
	metrics metrics.Recorder

	// runTx wraps a function in a single database transaction. Tests swap
	// it out to run the function directly against a mock repository.
	runTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewService(repo Repository, pool *pgxpool.Pool, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Service{
		repo:    repo,
		metrics: rec,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.RunInTx(ctx, pool, fn)
		},
	}
}

// Submit adjudicates a claim and persists the decision. The member lock, all
// eligibility and coverage reads, and the claim insert run in one
// transaction: either the decided claim is written in full or nothing is.
//
// Fraud flagging is advisory. A flagged claim still gets whatever status the
// coverage terms produce; the flag only marks it for review.
func (s *Service) Submit(ctx context.Context, caller auth.Identity, in SubmitInput) (*Result, error) {
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	var claim Claim
	err := s.runTx(ctx, func(ctx context.Context) error {
		member, err := s.repo.LockMember(ctx, in.MemberID)
		if err != nil {
			return err
		}
		if !member.Active {
			return fmt.Errorf("member %d: %w", in.MemberID, ErrNotFound)
		}

		proc, err := s.repo.GetProcedureByCode(ctx, in.ProcedureCode)
		if err != nil {
			return err
		}
		if proc.AverageCost == nil {
			return fmt.Errorf("procedure %s has no average cost: %w", proc.Code, ErrDataIntegrity)
		}

		link, err := s.repo.GetPlanBenefitLink(ctx, member.PlanID, proc.BenefitID)
		if err != nil {
			return err
		}

		decision := ResolveCoverage(link, in.ClaimAmount)

		claim = Claim{
			MemberID:       member.ID,
			ProcedureID:    proc.ID,
			ClaimAmount:    in.ClaimAmount,
			DiagnosisCode:  in.DiagnosisCode,
			FraudFlag:      IsFraudulent(in.ClaimAmount, *proc.AverageCost),
			ApprovedAmount: decision.ApprovedAmount,
			Status:         decision.Status,
		}
		if caller.UserID != 0 {
			uid := caller.UserID
			claim.SubmittedBy = &uid
		}
		return s.repo.InsertClaim(ctx, &claim)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDecision(string(claim.Status))
	if claim.FraudFlag {
		s.metrics.RecordFraudFlag()
	}

	return &Result{
		ClaimID:        claim.ClaimID,
		Status:         claim.Status,
		FraudFlag:      claim.FraudFlag,
		ApprovedAmount: claim.ApprovedAmount,
	}, nil
}

func (s *Service) Get(ctx context.Context, claimID uuid.UUID) (*Claim, error) {
	return s.repo.GetByPublicID(ctx, claimID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func validateSubmit(in SubmitInput) error {
	if in.MemberID <= 0 {
		return fmt.Errorf("member_id is required: %w", ErrInvalidInput)
	}
	if in.ClaimAmount <= 0 {
		return fmt.Errorf("claim_amount must be positive: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(in.ProcedureCode) == "" {
		return fmt.Errorf("procedure_code is required: %w", ErrInvalidInput)
	}
	return nil
}
