package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) LockMember(ctx context.Context, memberID int64) (*MemberRecord, error) {
	var m MemberRecord
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, member_number, active, plan_id
		FROM members
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, memberID,
	).Scan(&m.ID, &m.MemberNumber, &m.Active, &m.PlanID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock member: %w", err)
	}
	return &m, nil
}

func (r *repoPG) GetProcedureByCode(ctx context.Context, code string) (*ProcedureRecord, error) {
	var p ProcedureRecord
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, code, benefit_id, average_cost
		FROM procedures
		WHERE code = $1 AND deleted_at IS NULL`, code,
	).Scan(&p.ID, &p.Code, &p.BenefitID, &p.AverageCost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get procedure by code: %w", err)
	}
	return &p, nil
}

func (r *repoPG) GetPlanBenefitLink(ctx context.Context, planID, benefitID int64) (*PlanBenefitLink, error) {
	var link PlanBenefitLink
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT annual_limit, is_excluded
		FROM plans_benefits
		WHERE plan_id = $1 AND benefit_id = $2 AND deleted_at IS NULL`, planID, benefitID,
	).Scan(&link.AnnualLimit, &link.IsExcluded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan benefit link: %w", err)
	}
	return &link, nil
}

func (r *repoPG) InsertClaim(ctx context.Context, c *Claim) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO claims (member_id, procedure_id, claim_amount, diagnosis_code,
			fraud_flag, approved_amount, status, submitted_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, claim_id, created_at, updated_at`,
		c.MemberID, c.ProcedureID, c.ClaimAmount, c.DiagnosisCode,
		c.FraudFlag, c.ApprovedAmount, c.Status, c.SubmittedBy,
	).Scan(&c.ID, &c.ClaimID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

const claimCols = `id, claim_id, member_id, procedure_id, claim_amount, diagnosis_code,
	fraud_flag, approved_amount, status, submitted_by, created_at, updated_at`

func (r *repoPG) GetByPublicID(ctx context.Context, claimID uuid.UUID) (*Claim, error) {
	c, err := scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claims WHERE claim_id = $1`, claimID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return c, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+claimCols+` FROM claims ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(
		&c.ID, &c.ClaimID, &c.MemberID, &c.ProcedureID, &c.ClaimAmount, &c.DiagnosisCode,
		&c.FraudFlag, &c.ApprovedAmount, &c.Status, &c.SubmittedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
