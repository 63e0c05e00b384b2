package admin

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

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid username or password"},
}

var scannerErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "voucher not found"},
	{target: service.ErrVoucherNotPaid, code: response.CodeBadRequest, msg: "voucher has not been paid"},
	{target: service.ErrVoucherAlreadyUsed, code: response.CodeBadRequest, msg: "voucher was already used"},
	{target: service.ErrVoucherExpired, code: response.CodeBadRequest, msg: "voucher has expired"},
	{target: service.ErrBalanceOutOfRange, code: response.CodeBadRequest, msg: "balance out of range"},
	{target: service.ErrRedemptionConflict, code: response.CodeConflict, msg: "voucher was updated by someone else, refresh and retry"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrDistributorNotFound, code: response.CodeNotFound, msg: "distributor not found"},
}
