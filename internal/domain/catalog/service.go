package catalog

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	plans        PlanRepository
	benefits     BenefitRepository
	planBenefits PlanBenefitRepository
	procedures   ProcedureRepository
}

func NewService(plans PlanRepository, benefits BenefitRepository, links PlanBenefitRepository, procedures ProcedureRepository) *Service {
	return &Service{plans: plans, benefits: benefits, planBenefits: links, procedures: procedures}
}

// -- Plans --

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.plans.Create(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id int64) (*Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context, limit, offset int) ([]*Plan, int, error) {
	return s.plans.List(ctx, limit, offset)
}

// -- Benefits --

func (s *Service) CreateBenefit(ctx context.Context, b *Benefit) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.AnnualLimit != nil && *b.AnnualLimit < 0 {
		return fmt.Errorf("annual_limit cannot be negative")
	}
	return s.benefits.Create(ctx, b)
}

func (s *Service) GetBenefit(ctx context.Context, id int64) (*Benefit, error) {
	return s.benefits.GetByID(ctx, id)
}

func (s *Service) ListBenefits(ctx context.Context, limit, offset int) ([]*Benefit, int, error) {
	return s.benefits.List(ctx, limit, offset)
}

// -- Plan-Benefit Links --

func (s *Service) LinkBenefit(ctx context.Context, link *PlanBenefit) error {
	if link.PlanID <= 0 {
		return fmt.Errorf("plan_id is required")
	}
	if link.BenefitID <= 0 {
		return fmt.Errorf("benefit_id is required")
	}
	if link.AnnualLimit != nil && *link.AnnualLimit < 0 {
		return fmt.Errorf("annual_limit cannot be negative")
	}
	// The referenced rows must exist before linking.
	if _, err := s.plans.GetByID(ctx, link.PlanID); err != nil {
		return err
	}
	if _, err := s.benefits.GetByID(ctx, link.BenefitID); err != nil {
		return err
	}
	return s.planBenefits.Create(ctx, link)
}

func (s *Service) UpdateLink(ctx context.Context, link *PlanBenefit) error {
	if link.AnnualLimit != nil && *link.AnnualLimit < 0 {
		return fmt.Errorf("annual_limit cannot be negative")
	}
	return s.planBenefits.Update(ctx, link)
}

func (s *Service) GetLink(ctx context.Context, id int64) (*PlanBenefit, error) {
	return s.planBenefits.GetByID(ctx, id)
}

func (s *Service) ListPlanBenefits(ctx context.Context, planID int64, limit, offset int) ([]*PlanBenefit, int, error) {
	return s.planBenefits.ListByPlan(ctx, planID, limit, offset)
}

// -- Procedures --

func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	p.Code = strings.TrimSpace(p.Code)
	if p.Code == "" {
		return fmt.Errorf("code is required")
	}
	if p.BenefitID <= 0 {
		return fmt.Errorf("benefit_id is required")
	}
	if p.AverageCost <= 0 {
		return fmt.Errorf("average_cost must be positive")
	}
	if _, err := s.benefits.GetByID(ctx, p.BenefitID); err != nil {
		return err
	}
	return s.procedures.Create(ctx, p)
}

func (s *Service) GetProcedure(ctx context.Context, id int64) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id)
}

func (s *Service) GetProcedureByCode(ctx context.Context, code string) (*Procedure, error) {
	return s.procedures.GetByCode(ctx, code)
}

func (s *Service) ListProcedures(ctx context.Context, limit, offset int) ([]*Procedure, int, error) {
	return s.procedures.List(ctx, limit, offset)
}
