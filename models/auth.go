package models

import "time"

// UserProfile is the identity record kept alongside a user's progress.
// PasswordHash is bcrypt.
type UserProfile struct {
	PasswordHash  string `json:"password"`
	CreatedTime   string `json:"created_time"`
	LastLogin     string `json:"last_login,omitempty"`
	LastIP        string `json:"last_ip,omitempty"`
	LastUserAgent string `json:"last_user_agent,omitempty"`
}

// Session represents an active login session.
type Session struct {
	Token     string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginRequest for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest for account creation
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
