package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/akhil-nair-17/FestPay/payments"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/webhooks/gateway
//
// Asynchronous gateway callback: capture succeeded/failed, bank transfer
// settled. The payload is authenticated with an HMAC-SHA256 signature over
// the raw body before anything is applied.
func GatewayWebhook(c *gin.Context) {
	utils.LogInfo("GatewayWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequest(c, "Unable to read request body", nil)
		return
	}

	signature := c.GetHeader("X-Webhook-Signature")
	if signature == "" {
		utils.LogError("Webhook missing signature header")
		utils.Unauthorized(c, "Missing webhook signature")
		return
	}

	h := hmac.New(sha256.New, []byte(webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		utils.LogError("Webhook signature verification failed")
		utils.Unauthorized(c, "Invalid webhook signature")
		return
	}

	var event payments.GatewayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.BadRequest(c, "Invalid event payload", nil)
		return
	}

	result, err := reconciler.Reconcile(c.Request.Context(), event)
	if err != nil {
		utils.LogError("Webhook reconciliation failed - transaction: %s: %v", event.TransactionID, err)
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Event reconciled", result)
}
