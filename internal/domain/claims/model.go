package claims

import (
	"time"

	"github.com/google/uuid"
)

// Status is the adjudication outcome recorded on a claim.
type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusPartial  Status = "PARTIAL"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the three adjudication statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusPartial, StatusRejected:
		return true
	}
	return false
}

// Claim maps to the claims table. The decision fields (status, approved
// amount, fraud flag) are written once at adjudication time and never
// updated afterwards.
type Claim struct {
	ID             int64     `db:"id" json:"-"`
	ClaimID        uuid.UUID `db:"claim_id" json:"claim_id"`
	MemberID       int64     `db:"member_id" json:"member_id"`
	ProcedureID    int64     `db:"procedure_id" json:"procedure_id"`
	ClaimAmount    float64   `db:"claim_amount" json:"claim_amount"`
	DiagnosisCode  *string   `db:"diagnosis_code" json:"diagnosis_code,omitempty"`
	FraudFlag      bool      `db:"fraud_flag" json:"fraud_flag"`
	ApprovedAmount float64   `db:"approved_amount" json:"approved_amount"`
	Status         Status    `db:"status" json:"status"`
	SubmittedBy    *int64    `db:"submitted_by" json:"submitted_by,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// MemberRecord is the slice of a member row the adjudicator needs: identity,
// eligibility, and the plan used for coverage resolution.
type MemberRecord struct {
	ID           int64
	MemberNumber string
	Active       bool
	PlanID       int64
}

// ProcedureRecord is the slice of a procedure row the adjudicator needs.
// AverageCost is nullable at the SQL layer so a broken row surfaces as a
// data-integrity error instead of silently scoring as zero cost.
type ProcedureRecord struct {
	ID          int64
	Code        string
	BenefitID   int64
	AverageCost *float64
}

// PlanBenefitLink carries the per-plan coverage terms for one benefit.
type PlanBenefitLink struct {
	AnnualLimit *float64
	IsExcluded  bool
}

// Decision is the outcome of coverage resolution.
type Decision struct {
	Status         Status
	ApprovedAmount float64
}

// SubmitInput is the adjudicator's request payload.
type SubmitInput struct {
	MemberID      int64   `json:"member_id"`
	ClaimAmount   float64 `json:"claim_amount"`
	ProcedureCode string  `json:"procedure_code"`
	DiagnosisCode *string `json:"diagnosis_code,omitempty"`
}

// Result is what a successful submission returns to the caller.
type Result struct {
	ClaimID        uuid.UUID `json:"claim_id"`
	Status         Status    `json:"status"`
	FraudFlag      bool      `json:"fraud_flag"`
	ApprovedAmount float64   `json:"approved_amount"`
}

// LookupResult is the public read shape for a single claim. Internal row ids,
// amounts, and the submitting user stay out of it.
type LookupResult struct {
	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`
}
