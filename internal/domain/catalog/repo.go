package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, limit, offset int) ([]*Plan, int, error)
}

type BenefitRepository interface {
	Create(ctx context.Context, b *Benefit) error
	GetByID(ctx context.Context, id int64) (*Benefit, error)
	List(ctx context.Context, limit, offset int) ([]*Benefit, int, error)
}

type PlanBenefitRepository interface {
	Create(ctx context.Context, link *PlanBenefit) error
	GetByID(ctx context.Context, id int64) (*PlanBenefit, error)
	// Update rewrites the coverage terms (limit, exclusion) on a link.
	Update(ctx context.Context, link *PlanBenefit) error
	ListByPlan(ctx context.Context, planID int64, limit, offset int) ([]*PlanBenefit, int, error)
}

type ProcedureRepository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, id int64) (*Procedure, error)
	GetByCode(ctx context.Context, code string) (*Procedure, error)
	List(ctx context.Context, limit, offset int) ([]*Procedure, int, error)
}
