package admin

import (
	"strings"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ScannerLookup 扫码端查券：按哈希码或编号码
func (h *Handler) ScannerLookup(c *gin.Context) {
	if _, ok := getPrincipal(c); !ok {
		return
	}
	method := strings.TrimSpace(c.Query("method"))
	if method != constants.VoucherLookupByNumberCode {
		method = constants.VoucherLookupByHash
	}
	value := strings.TrimSpace(c.Query("value"))
	if value == "" {
		respondError(c, response.CodeBadRequest, "lookup value is required", nil)
		return
	}

	view, err := h.RedemptionService.Lookup(method, value)
	if err != nil {
		respondWithMappedError(c, err, scannerErrorRules, response.CodeInternal, "lookup failed")
		return
	}
	response.Success(c, view)
}

// RedeemRequest 核销请求，balance 为核销后的余额
type RedeemRequest struct {
	Hash    string       `json:"hash" binding:"required"`
	Used    bool         `json:"used"`
	Balance models.Money `json:"balance"`
}

// Redeem 核销一次消费。并发改动返回冲突，扫码端刷新后重试。
func (h *Handler) Redeem(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid redeem request", err)
		return
	}

	view, err := h.RedemptionService.Apply(req.Hash, req.Used, req.Balance)
	if err != nil {
		respondWithMappedError(c, err, scannerErrorRules, response.CodeInternal, "redeem failed")
		return
	}
	requestLog(c).Infow("voucher_redeemed",
		"voucher_id", view.ID,
		"used", view.Used,
		"balance", view.Balance.String(),
		"staff", principal.Username,
	)
	response.Success(c, view)
}
