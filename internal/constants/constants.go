package constants

import (
	"fmt"
	"strings"
)

// VoucherKind 代金券产品类型（封闭枚举，边界处解析）
type VoucherKind string

const (
	// VoucherKindThreeOption 三档固定面额
	VoucherKindThreeOption VoucherKind = "three_option"
	// VoucherKindRange 自选金额区间
	VoucherKindRange VoucherKind = "range"
	// VoucherKindLabel 主题标签券
	VoucherKindLabel VoucherKind = "label"
)

// ParseVoucherKind 解析类型字符串，未知值直接拒绝
func ParseVoucherKind(raw string) (VoucherKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(VoucherKindThreeOption), "threeoptionvoucher":
		return VoucherKindThreeOption, nil
	case string(VoucherKindRange), "rangevoucher":
		return VoucherKindRange, nil
	case string(VoucherKindLabel), "labelvoucher":
		return VoucherKindLabel, nil
	default:
		return "", fmt.Errorf("unknown voucher kind: %q", raw)
	}
}

// String 返回存储用小写值
func (k VoucherKind) String() string {
	return string(k)
}

// Valid 判断是否为已知类型
func (k VoucherKind) Valid() bool {
	switch k {
	case VoucherKindThreeOption, VoucherKindRange, VoucherKindLabel:
		return true
	}
	return false
}

// PaymentStatus 支付状态（外部网关口径，仅 paid 视为已支付）
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// 券码查找方式
const (
	VoucherLookupByHash       = "hash"
	VoucherLookupByNumberCode = "number_code"
)

// 订单日期筛选快捷标记（解析后替换为具体时间戳）
const (
	DateShortcutPrevHour         = "PREV_HOUR"
	DateShortcutRecentActivation = "MOST_RECENT_ACTIVATION"
)

// 队列与任务名称
const (
	QueueDefault     = "default"
	TaskReceiptEmail = "email:receipt"
)

// OrderQueryPageSize 后台订单列表固定分页大小
const OrderQueryPageSize = 25
