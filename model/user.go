package model

import "time"

// Reciter is the user's favorite reciter, stored as-is and returned
// with the profile. The auth core never interprets these fields.
type Reciter struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameAr  string `json:"nameAr"`
	BaseURL string `json:"baseUrl"`
}

type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Verified     bool   `gorm:"default:false"`

	// Set while the account is unverified, cleared forever once the
	// user proves email ownership.
	VerificationCodeHash   *string
	VerificationCodeExpiry *time.Time

	// Both set on a reset request, both cleared when the password
	// is replaced.
	ResetCodeHash   *string
	ResetCodeExpiry *time.Time

	FavoriteReciter *Reciter `gorm:"embedded;embeddedPrefix:reciter_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
