package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andar-inc/andar/internal/domain/subscription"
)

func TestListPlans(t *testing.T) {
	planRepo := &mockPlanRepository{}
	planRepo.ListActiveFunc = func(ctx context.Context) ([]*subscription.Plan, error) {
		return []*subscription.Plan{
			reconstructPlan(t, 1, "mp-plan-1", true),
			reconstructPlan(t, 2, "", true),
		}, nil
	}

	uc := NewListPlansUseCase(planRepo, noopLogger{})

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Plans, 2)
	assert.True(t, result.Plans[0].IsSynced())
	assert.False(t, result.Plans[1].IsSynced())
}
