package dto

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"` // 0 = unlimited
	Currency    string `json:"currency"`
}

// TripResponse represents a trip object in responses
type TripResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
	Currency    string `json:"currency"`
	CreatorID   string `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateTripResponse envelope
type CreateTripResponse struct {
	Trip TripResponse `json:"trip"`
}

// TripMember item in trip detail
type TripMember struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	JoinedAt string `json:"joined_at"`
}

// TripPermissions for detail
type TripPermissions struct {
	CanManageBudget bool `json:"can_manage_budget"`
}

// TripDetailResponse envelope
type TripDetailResponse struct {
	Trip        TripResponse    `json:"trip"`
	Members     []TripMember    `json:"members"`
	Permissions TripPermissions `json:"permissions"`
}

// MembershipResponse envelope
type MembershipResponse struct {
	Member TripMember `json:"member"`
}

