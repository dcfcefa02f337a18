package member

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *Member) error {
	m.MemberNumber = strings.TrimSpace(m.MemberNumber)
	if m.MemberNumber == "" {
		return fmt.Errorf("member_number is required")
	}
	if m.PlanID <= 0 {
		return fmt.Errorf("plan_id is required")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Member) error {
	if strings.TrimSpace(m.MemberNumber) == "" {
		return fmt.Errorf("member_number is required")
	}
	if m.PlanID <= 0 {
		return fmt.Errorf("plan_id is required")
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, limit, offset)
}
