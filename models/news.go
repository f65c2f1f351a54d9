package models

import "time"

// News is a published article. Image holds the public URL of the uploaded
// blob and ImageKey the raw object-storage key, stored at write time so
// deletion never has to re-derive the key from the URL.
type News struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	Image     *string
	ImageKey  *string
	CreatedAt time.Time
}

func (n *News) TableName() string {
	return "news"
}
