package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- Plan Repository --

type planRepoPG struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) PlanRepository {
	return &planRepoPG{pool: pool}
}

func (r *planRepoPG) Create(ctx context.Context, p *Plan) error {
	err := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO plans (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		p.Name,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (r *planRepoPG) GetByID(ctx context.Context, id int64) (*Plan, error) {
	var p Plan
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, created_at, updated_at, deleted_at
		FROM plans WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (r *planRepoPG) List(ctx context.Context, limit, offset int) ([]*Plan, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM plans WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, created_at, updated_at, deleted_at
		FROM plans WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

// -- Benefit Repository --

type benefitRepoPG struct {
	pool *pgxpool.Pool
}

func NewBenefitRepo(pool *pgxpool.Pool) BenefitRepository {
	return &benefitRepoPG{pool: pool}
}

func (r *benefitRepoPG) Create(ctx context.Context, b *Benefit) error {
	err := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO benefits (name, annual_limit) VALUES ($1,$2) RETURNING id, created_at, updated_at`,
		b.Name, b.AnnualLimit,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create benefit: %w", err)
	}
	return nil
}

func (r *benefitRepoPG) GetByID(ctx context.Context, id int64) (*Benefit, error) {
	var b Benefit
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, annual_limit, created_at, updated_at, deleted_at
		FROM benefits WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&b.ID, &b.Name, &b.AnnualLimit, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get benefit: %w", err)
	}
	return &b, nil
}

func (r *benefitRepoPG) List(ctx context.Context, limit, offset int) ([]*Benefit, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM benefits WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, annual_limit, created_at, updated_at, deleted_at
		FROM benefits WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Benefit
	for rows.Next() {
		var b Benefit
		if err := rows.Scan(&b.ID, &b.Name, &b.AnnualLimit, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &b)
	}
	return out, total, rows.Err()
}

// -- PlanBenefit Repository --

type planBenefitRepoPG struct {
	pool *pgxpool.Pool
}

func NewPlanBenefitRepo(pool *pgxpool.Pool) PlanBenefitRepository {
	return &planBenefitRepoPG{pool: pool}
}

const planBenefitCols = `id, plan_id, benefit_id, annual_limit, is_excluded, created_at, updated_at, deleted_at`

func (r *planBenefitRepoPG) Create(ctx context.Context, link *PlanBenefit) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO plans_benefits (plan_id, benefit_id, annual_limit, is_excluded)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		link.PlanID, link.BenefitID, link.AnnualLimit, link.IsExcluded,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plan benefit: %w", err)
	}
	return nil
}

func (r *planBenefitRepoPG) GetByID(ctx context.Context, id int64) (*PlanBenefit, error) {
	link, err := scanPlanBenefit(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+planBenefitCols+` FROM plans_benefits WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan benefit: %w", err)
	}
	return link, nil
}

func (r *planBenefitRepoPG) Update(ctx context.Context, link *PlanBenefit) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE plans_benefits SET annual_limit=$2, is_excluded=$3, updated_at=NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		link.ID, link.AnnualLimit, link.IsExcluded,
	)
	if err != nil {
		return fmt.Errorf("update plan benefit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *planBenefitRepoPG) ListByPlan(ctx context.Context, planID int64, limit, offset int) ([]*PlanBenefit, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM plans_benefits WHERE plan_id = $1 AND deleted_at IS NULL`, planID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+planBenefitCols+` FROM plans_benefits WHERE plan_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT $2 OFFSET $3`,
		planID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*PlanBenefit
	for rows.Next() {
		link, err := scanPlanBenefit(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, link)
	}
	return out, total, rows.Err()
}

func scanPlanBenefit(row pgx.Row) (*PlanBenefit, error) {
	var link PlanBenefit
	err := row.Scan(&link.ID, &link.PlanID, &link.BenefitID, &link.AnnualLimit, &link.IsExcluded,
		&link.CreatedAt, &link.UpdatedAt, &link.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// -- Procedure Repository --

type procedureRepoPG struct {
	pool *pgxpool.Pool
}

func NewProcedureRepo(pool *pgxpool.Pool) ProcedureRepository {
	return &procedureRepoPG{pool: pool}
}

const procedureCols = `id, code, benefit_id, average_cost, created_at, updated_at, deleted_at`

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO procedures (code, benefit_id, average_cost)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`,
		p.Code, p.BenefitID, p.AverageCost,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create procedure: %w", err)
	}
	return nil
}

func (r *procedureRepoPG) GetByID(ctx context.Context, id int64) (*Procedure, error) {
	p, err := scanProcedure(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get procedure: %w", err)
	}
	return p, nil
}

func (r *procedureRepoPG) GetByCode(ctx context.Context, code string) (*Procedure, error) {
	p, err := scanProcedure(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE code = $1 AND deleted_at IS NULL`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get procedure by code: %w", err)
	}
	return p, nil
}

func (r *procedureRepoPG) List(ctx context.Context, limit, offset int) ([]*Procedure, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM procedures WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE deleted_at IS NULL ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.Code, &p.BenefitID, &p.AverageCost, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
