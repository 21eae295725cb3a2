package domain

import "time"

type User struct {
	ID           int64   `json:"id" gorm:"primaryKey"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	Name         string  `json:"name" gorm:"not null"`
	PasswordHash string  `json:"-" gorm:"column:password;not null"`
	Phone        string  `json:"phone" gorm:"uniqueIndex;not null"`
	RefreshToken *string `json:"-" gorm:"index"`
	ResetToken   *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
