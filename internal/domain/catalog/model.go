// Package catalog manages the provisioning data claims are adjudicated
// against: insurance plans, benefits, the per-plan coverage terms linking
// them, and the procedures that map onto benefits.
package catalog

import "time"

// Plan is an insurance product members enroll in.
type Plan struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Benefit is a category of coverage. Its AnnualLimit is a default only;
// the per-plan limit on the PlanBenefit link is what adjudication reads.
type Benefit struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	AnnualLimit *float64   `db:"annual_limit" json:"annual_limit,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// PlanBenefit links a plan to a benefit with that plan's coverage terms.
// IsExcluded defaults to true so a freshly linked benefit denies coverage
// until someone sets terms deliberately.
type PlanBenefit struct {
	ID          int64      `db:"id" json:"id"`
	PlanID      int64      `db:"plan_id" json:"plan_id"`
	BenefitID   int64      `db:"benefit_id" json:"benefit_id"`
	AnnualLimit *float64   `db:"annual_limit" json:"annual_limit,omitempty"`
	IsExcluded  bool       `db:"is_excluded" json:"is_excluded"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// Procedure is a billable medical procedure. Code is unique and is the key
// claim submissions reference; AverageCost feeds the fraud heuristic.
type Procedure struct {
	ID          int64      `db:"id" json:"id"`
	Code        string     `db:"code" json:"code"`
	BenefitID   int64      `db:"benefit_id" json:"benefit_id"`
	AverageCost float64    `db:"average_cost" json:"average_cost"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}
