package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// Membership is a user's association with a trip. Leaving a trip clears
// IsActive; rows are never hard-deleted because splits reference them.
type Membership struct {
	TripID   uuid.UUID `json:"trip_id" db:"trip_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Role     Role      `json:"role" db:"role"`
	IsActive bool      `json:"is_active" db:"is_active"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// IsAdmin reports whether the member may manage other members' budget items.
// Rows created before roles were split into admin/guest carry "creator".
func (m Membership) IsAdmin() bool {
	return m.Role == RoleAdmin || m.Role == "creator"
}

// MemberIDs returns the user ids of the given memberships, in order.
func MemberIDs(ms []Membership) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.UserID)
	}
	return ids
}
