package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a travel trip created by a user.
// Only its existence, capacity and currency matter to the budget ledger.
type Trip struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	MaxMembers  int       `json:"max_members" db:"max_members"`
	Currency    string    `json:"currency" db:"currency"`
	CreatorID   uuid.UUID `json:"creator_id" db:"creator_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
