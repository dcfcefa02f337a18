// Package member manages enrolled plan members: the people claims are
// submitted on behalf of.
package member

import "time"

// Member maps to the members table. Active gates claim eligibility; an
// inactive member is treated as absent by the adjudicator.
type Member struct {
	ID           int64      `db:"id" json:"id"`
	MemberNumber string     `db:"member_number" json:"member_number"`
	Active       bool       `db:"active" json:"active"`
	PlanID       int64      `db:"plan_id" json:"plan_id"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}
