package admin

import (
	"strconv"

	"github.com/kaddo-next/internal/http/handlers/shared"
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderQueryRequest 订单查询请求。日期字段接受快捷符号
// PREV_HOUR / MOST_RECENT_ACTIVATION 或具体日期。
type OrderQueryRequest struct {
	AmountMin *models.Money `json:"amount_min"`
	AmountMax *models.Money `json:"amount_max"`
	DateMin   string        `json:"date_min"`
	DateMax   string        `json:"date_max"`
	Search    string        `json:"search"`
	Statuses  []string      `json:"statuses"`
	Page      int           `json:"page"`
}

// QueryOrders 订单列表查询
func (h *Handler) QueryOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req OrderQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid order query", err)
		return
	}

	result, err := h.OrderQueryService.Query(principal, service.OrderQueryInput{
		AmountMin: req.AmountMin,
		AmountMax: req.AmountMax,
		DateMin:   req.DateMin,
		DateMax:   req.DateMax,
		Search:    req.Search,
		Statuses:  req.Statuses,
		Page:      req.Page,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to query orders")
		return
	}
	response.SuccessWithPage(c, result.Items, response.Pagination{
		Page:      result.Page,
		PageSize:  result.PageSize,
		Total:     result.Total,
		TotalPage: shared.TotalPages(result.Total, result.PageSize),
	})
}

// OrderDetail 单笔订单详情
func (h *Handler) OrderDetail(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	voucherID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || voucherID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}
	voucher, err := h.OrderQueryService.OrderDetail(principal, uint(voucherID))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, voucher)
}
