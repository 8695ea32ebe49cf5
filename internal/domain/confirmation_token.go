package domain

import "time"

// ConfirmationToken is a single-use credential binding one registration to one
// user. ConfirmedAt is nil until redeemed and is set at most once.
type ConfirmationToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	User        User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token       string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"index;not null" json:"expiresAt"`
	ConfirmedAt *time.Time `gorm:"index" json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *ConfirmationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *ConfirmationToken) Confirmed() bool {
	return t.ConfirmedAt != nil
}
