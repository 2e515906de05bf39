package model

import "time"

// UserProfile is an account in a realm. RecipientID is the denormalized
// pointer to the user's personal recipient row.
type UserProfile struct {
	ID          int64     `json:"id"`
	RealmID     int64     `json:"realm_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	RecipientID int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
