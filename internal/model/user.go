package model

import "time"

// User is a registered account. Username and email are each unique.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time
}
