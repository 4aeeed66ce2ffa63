// Package user provides the user identity domain types.
package user

import (
	"time"
)

// User represents a registered account. Tasks reference users by ID;
// the account itself is created at registration and never mutated by
// the task core.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:100;not null"`
	Email        string `gorm:"uniqueIndex;not null;size:200"`
	PasswordHash string `gorm:"not null;size:100"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// TokenPair represents access and refresh tokens issued at login.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// Claims is the verified identity attached to a request.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
