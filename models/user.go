package models

import "time"

// User is the single administrator account for the directory. It is seeded
// out-of-band; the API only authenticates it and updates its profile.
type User struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"` // bcrypt hash, never serialized
	Name      string
	Telp      string
	Email     string
	Instagram string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) TableName() string {
	return "users"
}
