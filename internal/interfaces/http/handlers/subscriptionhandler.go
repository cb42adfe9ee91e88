package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "github.com/andar-inc/andar/internal/application/subscription/usecases"
	"github.com/andar-inc/andar/internal/shared/constants"
	"github.com/andar-inc/andar/internal/shared/logger"
	"github.com/andar-inc/andar/internal/shared/utils"
)

type SubscriptionHandler struct {
	createSubscriptionUC *subscriptionUsecases.CreateSubscriptionUseCase
	upgradePlanUC        *subscriptionUsecases.UpgradePlanUseCase
	verifySubscriptionUC *subscriptionUsecases.VerifySubscriptionUseCase
	logger               logger.Interface
}

func NewSubscriptionHandler(
	createSubscriptionUC *subscriptionUsecases.CreateSubscriptionUseCase,
	upgradePlanUC *subscriptionUsecases.UpgradePlanUseCase,
	verifySubscriptionUC *subscriptionUsecases.VerifySubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createSubscriptionUC: createSubscriptionUC,
		upgradePlanUC:        upgradePlanUC,
		verifySubscriptionUC: verifySubscriptionUC,
		logger:               logger,
	}
}

type CreateSubscriptionRequest struct {
	PlanID      uint   `json:"plan_id" binding:"required"`
	CardTokenID string `json:"card_token_id" binding:"required"`
	PayerEmail  string `json:"payer_email" binding:"omitempty,email"`
}

type CreateSubscriptionResponse struct {
	SubscriptionSID string `json:"subscription_sid"`
	Status          string `json:"status"`
	InitPoint       string `json:"init_point,omitempty"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := subscriptionUsecases.CreateSubscriptionCommand{
		UserID:      userID.(uint),
		PlanID:      req.PlanID,
		CardTokenID: req.CardTokenID,
		PayerEmail:  req.PayerEmail,
	}

	result, err := h.createSubscriptionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create subscription", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, CreateSubscriptionResponse{
		SubscriptionSID: result.Subscription.SID(),
		Status:          result.Subscription.Status().String(),
		InitPoint:       result.InitPoint,
	}, "subscription created successfully")
}

type ChangePlanRequest struct {
	CurrentSubscriptionSID string `json:"current_subscription_sid" binding:"required"`
	NewPlanID              uint   `json:"new_plan_id" binding:"required"`
	CardTokenID            string `json:"card_token_id" binding:"required"`
	PayerEmail             string `json:"payer_email" binding:"omitempty,email"`
}

type ChangePlanResponse struct {
	AttemptSID string `json:"attempt_sid"`
	Phase      string `json:"phase"`
	NewStatus  string `json:"new_status,omitempty"`
}

func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := subscriptionUsecases.StartUpgradeCommand{
		UserID:                 userID.(uint),
		CurrentSubscriptionSID: req.CurrentSubscriptionSID,
		NewPlanID:              req.NewPlanID,
		CardTokenID:            req.CardTokenID,
		PayerEmail:             req.PayerEmail,
	}

	result, err := h.upgradePlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to change plan", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan changed successfully", ChangePlanResponse{
		AttemptSID: result.Attempt.SID(),
		Phase:      string(result.Attempt.Phase()),
		NewStatus:  result.NewStatus,
	})
}

// VerifySubscriptionRequest accepts either identifier a client actually
// holds: the provider subscription id handed back by the checkout redirect,
// or the SID returned at creation.
type VerifySubscriptionRequest struct {
	ProviderSubscriptionID string `json:"provider_subscription_id"`
	SubscriptionSID        string `json:"subscription_sid"`
}

type VerifySubscriptionResponse struct {
	Status         string `json:"status"`
	ProviderStatus string `json:"provider_status"`
	RetryLater     bool   `json:"retry_later"`
}

func (h *SubscriptionHandler) VerifySubscription(c *gin.Context) {
	if _, exists := c.Get(constants.ContextKeyUserID); !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req VerifySubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.verifySubscriptionUC.Execute(c.Request.Context(), subscriptionUsecases.VerifySubscriptionCommand{
		SubscriptionSID:        req.SubscriptionSID,
		ProviderSubscriptionID: req.ProviderSubscriptionID,
	})
	if err != nil {
		h.logger.Errorw("failed to verify subscription",
			"error", err,
			"subscription_sid", req.SubscriptionSID,
			"provider_subscription_id", req.ProviderSubscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription verified", VerifySubscriptionResponse{
		Status:         result.Status,
		ProviderStatus: result.ProviderStatus,
		RetryLater:     result.RetryLater,
	})
}
