package claims

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a member, procedure, or claim the caller
// named does not exist (or, for members, exists but is soft-deleted).
var ErrNotFound = errors.New("not found")

// ErrDataIntegrity is returned when a row the data model guarantees is
// present or populated turns out not to be. It signals an unexpected state,
// not a caller mistake.
var ErrDataIntegrity = errors.New("data integrity violation")

// Repository covers every read and write the adjudicator performs. All
// methods join the transaction carried by ctx when one is present, which is
// how the adjudicator keeps the member lock, its input reads, and the claim
// insert atomic.
type Repository interface {
	// LockMember fetches the member row under an exclusive row lock that
	// lasts until the surrounding transaction ends. Returns ErrNotFound
	// when no live member has the given id.
	LockMember(ctx context.Context, memberID int64) (*MemberRecord, error)

	// GetProcedureByCode resolves a procedure by its unique code. Returns
	// ErrNotFound when the code is unknown.
	GetProcedureByCode(ctx context.Context, code string) (*ProcedureRecord, error)

	// GetPlanBenefitLink fetches the coverage terms linking a plan to a
	// benefit. Returns (nil, nil) when no link exists; an absent link is a
	// normal rejection case, not an error.
	GetPlanBenefitLink(ctx context.Context, planID, benefitID int64) (*PlanBenefitLink, error)

	// InsertClaim persists a freshly adjudicated claim and fills in the
	// generated ids and timestamps.
	InsertClaim(ctx context.Context, c *Claim) error

	// GetByPublicID fetches a claim by its public UUID. Returns ErrNotFound
	// when no claim carries that id.
	GetByPublicID(ctx context.Context, claimID uuid.UUID) (*Claim, error)

	// List returns claims ordered newest first, plus the total count.
	List(ctx context.Context, limit, offset int) ([]*Claim, int, error)
}
