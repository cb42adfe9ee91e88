package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "github.com/andar-inc/andar/internal/application/subscription/usecases"
	"github.com/andar-inc/andar/internal/shared/logger"
	"github.com/andar-inc/andar/internal/shared/utils"
)

type PlanHandler struct {
	listPlansUC *subscriptionUsecases.ListPlansUseCase
	logger      logger.Interface
}

func NewPlanHandler(listPlansUC *subscriptionUsecases.ListPlansUseCase, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		listPlansUC: listPlansUC,
		logger:      logger,
	}
}

type PlanResponse struct {
	SID          string `json:"sid"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	BillingCycle string `json:"billing_cycle"`
	MaxPosts     int    `json:"max_posts"`
	MaxBookings  int    `json:"max_bookings"`
	Available    bool   `json:"available"`
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	result, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list plans", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	plans := make([]PlanResponse, 0, len(result.Plans))
	for _, p := range result.Plans {
		plans = append(plans, PlanResponse{
			SID:          p.SID(),
			Name:         p.Name(),
			Description:  p.Description(),
			PriceCents:   p.PriceCents(),
			Currency:     p.Currency(),
			BillingCycle: p.BillingCycle().String(),
			MaxPosts:     p.MaxPosts(),
			MaxBookings:  p.MaxBookings(),
			// Unsynced plans are listed but cannot be subscribed to yet.
			Available: p.IsSynced(),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "plans retrieved successfully", plans)
}
