package service

import (
	"errors"
	"fmt"
)

// 业务错误定义，handler 层统一映射为响应码
var (
	ErrDistributorNotFound     = errors.New("distributor not found")
	ErrTemplateNotFound        = errors.New("voucher template not found")
	ErrVoucherNotFound         = errors.New("voucher not found")
	ErrSaleNotFound            = errors.New("sale not found")
	ErrTamperedAmount          = errors.New("amount does not match voucher template")
	ErrVoucherAlreadyUsed      = errors.New("voucher already used")
	ErrVoucherExpired          = errors.New("voucher expired")
	ErrVoucherNotPaid          = errors.New("voucher sale not paid")
	ErrSaleAlreadyPaid         = errors.New("sale already paid")
	ErrRedemptionConflict      = errors.New("voucher was modified concurrently")
	ErrBalanceOutOfRange       = errors.New("balance out of range")
	ErrGatewayUnavailable      = errors.New("payment gateway unavailable")
	ErrCodeGenerationExhausted = errors.New("voucher code generation exhausted")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrPermissionDenied        = errors.New("permission denied")
)

// ValidationError 携带字段名的校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError 创建校验错误
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
