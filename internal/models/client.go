package models

import "time"

// Client 购买人，创建后不可变更
type Client struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FirstName string    `gorm:"size:64;not null" json:"first_name"`
	LastName  string    `gorm:"size:64;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Tel       string    `gorm:"size:32" json:"tel"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName 购买人全名
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
