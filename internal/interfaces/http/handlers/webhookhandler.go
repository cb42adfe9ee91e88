package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	billingUsecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	"github.com/andar-inc/andar/internal/shared/logger"
)

// WebhookHandler receives provider notifications. It always acknowledges
// with 200: a non-200 makes the provider redeliver forever, and redelivery
// is already how transient processing failures heal. Parse failures and
// processing errors are logged, never surfaced.
type WebhookHandler struct {
	processNotificationUC *billingUsecases.ProcessNotificationUseCase
	logger                logger.Interface
}

func NewWebhookHandler(
	processNotificationUC *billingUsecases.ProcessNotificationUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		processNotificationUC: processNotificationUC,
		logger:                logger,
	}
}

// webhookBody is the provider's notification payload. Fields are duplicated
// between query string and body depending on notification vintage, so both
// are read.
type webhookBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
	UserID any `json:"user_id"`
}

func (h *WebhookHandler) HandleMercadoPago(c *gin.Context) {
	var body webhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warnw("failed to parse webhook body", "error", err)
	}

	notificationType := body.Type
	if notificationType == "" {
		notificationType = c.Query("type")
	}
	if notificationType == "" {
		notificationType = c.Query("topic")
	}

	dataID := body.Data.ID
	if dataID == "" {
		dataID = c.Query("data.id")
	}
	if dataID == "" {
		dataID = c.Query("id")
	}

	n := billingUsecases.Notification{
		Type:           notificationType,
		Action:         body.Action,
		DataID:         dataID,
		ProviderUserID: providerUserID(body.UserID, c.Query("user_id")),
	}

	h.logger.Infow("webhook received",
		"type", n.Type, "action", n.Action, "data_id", n.DataID)

	if err := h.processNotificationUC.Execute(c.Request.Context(), n); err != nil {
		// The provider retries on its own schedule; local state is already
		// consistent or will converge on the next delivery.
		h.logger.Errorw("webhook processing failed",
			"type", n.Type, "action", n.Action, "data_id", n.DataID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// providerUserID normalizes the provider's user_id field, which arrives as a
// JSON number in webhook bodies and a string in query params.
func providerUserID(bodyValue any, queryValue string) string {
	switch v := bodyValue.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v > 0 {
			return strconv.FormatUint(uint64(v), 10)
		}
	}
	return queryValue
}
