package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business status values. Registration defaults to pending; only the
// approve operation moves a business to active.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// Umkm is a listed local business. IDs are short 8-character base64url
// strings, a deliberate public-facing scheme distinct from the UUIDs used
// for the other entities.
type Umkm struct {
	ID          string `gorm:"primaryKey;size:8"`
	Name        string `gorm:"not null"`
	Address     string
	Phone       string
	Description string `gorm:"type:text"`
	Image       string
	ImageKey    string
	Status      string `gorm:"not null;default:pending"`
	Latitude    *float64
	Longitude   *float64
	CategoryID  string    `gorm:"not null;index"`
	Category    Category  `gorm:"foreignKey:CategoryID"`
	Products    []Product `gorm:"foreignKey:UmkmID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *Umkm) TableName() string {
	return "umkm"
}

// UmkmListing is the aggregated row shape the list, preview and dashboard
// queries scan into: one business joined with its category name, product
// count and cheapest product price (null when it has no products).
type UmkmListing struct {
	ID            string
	Name          string
	Image         string
	Address       string
	Phone         string
	Description   string
	Status        string
	Latitude      *float64
	Longitude     *float64
	Category      string
	JumlahProduk  int64
	HargaTermurah decimal.NullDecimal
}
