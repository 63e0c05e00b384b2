package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook 支付网关回调。回调体只携带交易号，支付状态由服务端
// 重新向网关求证。网关故障时返回非 2xx，促使网关按退避策略重发。
func (h *Handler) PaymentWebhook(c *gin.Context) {
	log := requestLog(c)
	paymentID := strings.TrimSpace(c.PostForm("id"))
	if paymentID == "" {
		log.Warnw("payment_webhook_missing_id", "client_ip", c.ClientIP())
		c.String(http.StatusBadRequest, "missing id")
		return
	}
	log.Infow("payment_webhook_received", "payment_id", paymentID, "client_ip", c.ClientIP())

	err := h.PaymentService.ConfirmPayment(c.Request.Context(), paymentID)
	switch {
	case err == nil:
		c.String(http.StatusOK, "ok")
	case errors.Is(err, service.ErrSaleNotFound):
		// 未知交易号直接吞掉，避免网关无限重试
		log.Warnw("payment_webhook_unknown_payment", "payment_id", paymentID)
		c.String(http.StatusOK, "ok")
	case errors.Is(err, service.ErrGatewayUnavailable):
		log.Warnw("payment_webhook_gateway_unavailable", "payment_id", paymentID, "error", err)
		c.String(http.StatusBadGateway, "gateway unavailable")
	default:
		log.Errorw("payment_webhook_failed", "payment_id", paymentID, "error", err)
		c.String(http.StatusInternalServerError, "internal error")
	}
}

// PaymentCheck 支付完成后的跳转查询页，只读不写
func (h *Handler) PaymentCheck(c *gin.Context) {
	paymentID := c.Param("payment_id")
	status, err := h.PaymentService.PollPaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		respondWithMappedError(c, err, paymentStatusErrorRules, response.CodeInternal, "failed to check payment status")
		return
	}
	response.Success(c, gin.H{"payment_id": paymentID, "status": status})
}
