package models

import "time"

// Voucher 已签发的礼券实例
type Voucher struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	SaleID         uint             `gorm:"index;not null" json:"sale_id"`
	Sale           *Sale            `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	TemplateID     uint             `gorm:"index;not null" json:"template_id"`
	Template       *VoucherTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	ReceiverName   string           `gorm:"size:128" json:"receiver_name"`
	ReceiverEmail  string           `gorm:"size:255" json:"receiver_email"`
	Balance        Money            `gorm:"type:decimal(12,2);not null" json:"balance"`
	Used           bool             `gorm:"default:false" json:"used"`
	ExpirationDate time.Time        `gorm:"index" json:"expiration_date"`
	HashCode       string           `gorm:"size:64;uniqueIndex;not null" json:"hash_code"`
	NumberCode     string           `gorm:"size:32;uniqueIndex;not null" json:"number_code"`
	Version        int64            `gorm:"default:0" json:"version"` // 乐观锁版本号
	CreatedAt      time.Time        `json:"created_at"`
}

// Expired 判断礼券在给定时刻是否已过期
func (v *Voucher) Expired(now time.Time) bool {
	return now.After(v.ExpirationDate)
}
