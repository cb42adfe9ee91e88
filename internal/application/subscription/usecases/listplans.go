package usecases

import (
	"context"
	"fmt"

	"github.com/andar-inc/andar/internal/domain/subscription"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type ListPlansResult struct {
	Plans []*subscription.Plan
}

// ListPlansUseCase returns the active catalog. Plans that have not been
// synced to the provider are still listed; creation rejects them later.
type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewListPlansUseCase(planRepo subscription.PlanRepository, log logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo, logger: log}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) (*ListPlansResult, error) {
	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return &ListPlansResult{Plans: plans}, nil
}
