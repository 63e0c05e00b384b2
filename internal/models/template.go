package models

import (
	"time"

	"github.com/kaddo-next/internal/constants"
)

// VoucherTemplate 礼券模板，按版本追加写入，旧版本永不删除
type VoucherTemplate struct {
	ID                uint                  `gorm:"primarykey" json:"id"`
	DistributorID     uint                  `gorm:"index;not null" json:"distributor_id"`
	Kind              constants.VoucherKind `gorm:"size:32;index;not null" json:"kind"`
	Amount            Money                 `gorm:"type:decimal(12,2)" json:"amount"`
	MinAmount         Money                 `gorm:"type:decimal(12,2)" json:"min_amount"`
	MaxAmount         Money                 `gorm:"type:decimal(12,2)" json:"max_amount"`
	Label             string                `gorm:"size:128" json:"label"`
	Description       string                `gorm:"type:text" json:"description"`
	DaysValid         int                   `gorm:"not null" json:"days_valid"`
	Active            bool                  `gorm:"index;default:false" json:"active"`
	OneUseOnly        bool                  `gorm:"default:false" json:"one_use_only"`
	MostRecentVersion bool                  `gorm:"index;default:false" json:"most_recent_version"`
	CreateDate        time.Time             `gorm:"index" json:"create_date"`
}

// TableName 沿用历史表名
func (VoucherTemplate) TableName() string {
	return "distributorvoucher"
}

// IsRange 是否为自选金额模板
func (t *VoucherTemplate) IsRange() bool {
	return t.Kind == constants.VoucherKindRange
}

// AcceptsAmount 校验购买金额是否符合模板定义
func (t *VoucherTemplate) AcceptsAmount(amount Money) bool {
	if t.IsRange() {
		return !amount.LessThan(t.MinAmount) && !amount.GreaterThan(t.MaxAmount)
	}
	return amount.Equal(t.Amount)
}
