package models

import (
	"github.com/shopspring/decimal"
)

// Product belongs to a business and is deleted along with it.
type Product struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description *string
	Image       *string
	ImageKey    *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UmkmID      string          `gorm:"not null;index"`
}

func (p *Product) TableName() string {
	return "products"
}
