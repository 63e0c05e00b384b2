package models

import "time"

// Sale 销售单，记录一次购买与支付状态
type Sale struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	ClientID     uint       `gorm:"index;not null" json:"client_id"`
	Client       *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Amount       Money      `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentID    string     `gorm:"size:64;index" json:"payment_id"`
	Paid         bool       `gorm:"default:false" json:"paid"`
	PurchaseDate *time.Time `json:"purchase_date"` // 支付确认时写入，此前为空
	CreatedAt    time.Time  `json:"created_at"`
}
