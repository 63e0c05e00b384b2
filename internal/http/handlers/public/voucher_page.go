package public

import (
	"github.com/kaddo-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// VoucherPage 礼券持有人页面：凭哈希码查看余额、编号与有效期
func (h *Handler) VoucherPage(c *gin.Context) {
	hash := c.Param("hash")
	view, err := h.RedemptionService.VoucherPage(hash)
	if err != nil {
		respondWithMappedError(c, err, voucherPageErrorRules, response.CodeInternal, "failed to load voucher")
		return
	}
	response.Success(c, view)
}
