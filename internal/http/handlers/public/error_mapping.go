package public

import (
	"errors"

	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		response.ErrorWithData(c, response.CodeBadRequest, validation.Error(), gin.H{"field": validation.Field})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var purchaseErrorRules = []mappedHandlerError{
	{target: service.ErrTemplateNotFound, code: response.CodeBadRequest, msg: "voucher is no longer available"},
	{target: service.ErrTamperedAmount, code: response.CodeBadRequest, msg: "amount does not match the selected voucher"},
	{target: service.ErrCodeGenerationExhausted, code: response.CodeInternal, msg: "could not complete the purchase, please try again"},
	{target: service.ErrDistributorNotFound, code: response.CodeNotFound, msg: "unknown storefront"},
}

var confirmationErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrSaleAlreadyPaid, code: response.CodeBadRequest, msg: "order is already paid"},
	{target: service.ErrSaleNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrGatewayUnavailable, code: response.CodeBadGateway, msg: "payment provider unavailable, please try again"},
}

var paymentStatusErrorRules = []mappedHandlerError{
	{target: service.ErrSaleNotFound, code: response.CodeNotFound, msg: "payment not found"},
	{target: service.ErrGatewayUnavailable, code: response.CodeBadGateway, msg: "payment provider unavailable, please try again"},
}

var voucherPageErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "voucher not found"},
}
