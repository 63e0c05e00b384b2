package public

import (
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PurchaseRequest 购买请求
type PurchaseRequest struct {
	TemplateID    uint                   `json:"template_id" binding:"required"`
	Amount        models.Money           `json:"amount" binding:"required"`
	Purchaser     service.PurchaserInput `json:"purchaser" binding:"required"`
	ReceiverName  string                 `json:"receiver_name"`
	ReceiverEmail string                 `json:"receiver_email"`
}

// Purchase 购买礼券：签发后返回确认页地址，支付在确认页发起
func (h *Handler) Purchase(c *gin.Context) {
	distributorID, ok := getDistributorID(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid purchase request", err)
		return
	}

	result, err := h.IssuanceService.IssueVoucher(service.IssueVoucherInput{
		DistributorID: distributorID,
		TemplateID:    req.TemplateID,
		Amount:        req.Amount,
		Purchaser:     req.Purchaser,
		Receiver: service.ReceiverInput{
			Name:  req.ReceiverName,
			Email: req.ReceiverEmail,
		},
	})
	if err != nil {
		respondWithMappedError(c, err, purchaseErrorRules, response.CodeInternal, "could not complete the purchase, please try again")
		return
	}

	requestLog(c).Infow("voucher_issued",
		"voucher_id", result.Voucher.ID,
		"sale_id", result.Sale.ID,
		"template_id", req.TemplateID,
	)
	response.Success(c, gin.H{
		"voucher_id":       result.Voucher.ID,
		"confirmation_url": "/bevestig/" + result.Voucher.HashCode,
	})
}

// Confirmation 订单确认页：订单汇总与支付跳转地址
func (h *Handler) Confirmation(c *gin.Context) {
	hash := c.Param("hash")
	view, err := h.PaymentService.ConfirmationPage(c.Request.Context(), hash)
	if err != nil {
		respondWithMappedError(c, err, confirmationErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, view)
}
