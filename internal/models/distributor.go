package models

import "time"

// Location 经销商所在地
type Location struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Postalcode string `gorm:"size:16" json:"postalcode"`
	City       string `gorm:"size:128" json:"city"`
}

// Distributor 经销商（商户）
type Distributor struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Email         string    `gorm:"size:255" json:"email"`
	Tel           string    `gorm:"size:32" json:"tel"`
	Address       string    `gorm:"size:255" json:"address"`
	LocationID    uint      `gorm:"index" json:"location_id"`
	Location      *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Subdomain     string    `gorm:"size:64;uniqueIndex" json:"subdomain"`
	Description   string    `gorm:"type:text" json:"description"`
	BankAccountNr string    `gorm:"size:64" json:"bank_account_nr"`
	BTWNr         string    `gorm:"size:64" json:"btw_nr"`
	CreatedAt     time.Time `json:"created_at"`
}
