package controllers

import (
	"net/http"

	"github.com/akhil-nair-17/FestPay/payments"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// Engine instances, constructed once in main and injected here so handlers
// never build their own gateway clients.
var (
	processor  *payments.Processor
	escrow     *payments.EscrowLedger
	refunds    *payments.RefundCoordinator
	payouts    *payments.PayoutScheduler
	invoices   *payments.InvoiceGenerator
	reconciler *payments.Reconciler

	webhookSecret string
)

// Init wires the HTTP handlers to the payment engine.
func Init(
	p *payments.Processor,
	e *payments.EscrowLedger,
	r *payments.RefundCoordinator,
	ps *payments.PayoutScheduler,
	inv *payments.InvoiceGenerator,
	rec *payments.Reconciler,
	secret string,
) {
	processor = p
	escrow = e
	refunds = r
	payouts = ps
	invoices = inv
	reconciler = rec
	webhookSecret = secret
}

// respondEngineError renders an engine failure through the AppError HTTP
// mapping. Callers get a short reason, never internals.
func respondEngineError(c *gin.Context, err error) {
	utils.RespondAppError(c, appErrorFor(err))
}

// appErrorFor translates the engine's failure taxonomy into an AppError
// carrying the HTTP status; the underlying cause rides along for logs only.
func appErrorFor(err error) *utils.AppError {
	switch payments.KindOf(err) {
	case payments.KindValidation, payments.KindConfiguration:
		return utils.NewAppError(http.StatusBadRequest, err.Error(), err)
	case payments.KindNotFound:
		return utils.NotFoundError(err.Error(), err)
	case payments.KindInvalidState, payments.KindAlreadyReleased:
		return utils.ConflictError(err.Error(), err)
	case payments.KindGateway:
		return utils.NewAppError(http.StatusServiceUnavailable, "Payment gateway is unavailable, please retry", err)
	default:
		utils.LogError("Unclassified engine error: %v", err)
		return utils.NewAppError(http.StatusInternalServerError, "Something went wrong", err)
	}
}
