package models

import "time"

// User mirrors the hosted users table. Only the credit columns are read or
// written by this service.
type User struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email               string    `json:"email"`
	MonthlyCreditsUsed  int       `json:"monthly_credits_used" gorm:"not null;default:0"`
	MonthlyCreditsLimit int       `json:"monthly_credits_limit" gorm:"not null;default:0"`
	SubscriptionStatus  string    `json:"subscription_status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// HasCredits reports whether another generation is allowed this month.
// A non-positive limit means unlimited.
func (u *User) HasCredits() bool {
	return u.MonthlyCreditsLimit <= 0 || u.MonthlyCreditsUsed < u.MonthlyCreditsLimit
}

// RemainingCredits is -1 for unlimited plans.
func (u *User) RemainingCredits() int {
	if u.MonthlyCreditsLimit <= 0 {
		return -1
	}
	if r := u.MonthlyCreditsLimit - u.MonthlyCreditsUsed; r > 0 {
		return r
	}
	return 0
}
