package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/repository"
)

const maxTripNameLength = 200

// TripInput is the create payload of a trip.
type TripInput struct {
	Name        string
	Description string
	MaxMembers  int
	Currency    string
}

// TripService manages trips and the membership roster the ledger splits
// over.
type TripService struct {
	store           repository.Store
	notify          notifier
	log             logging.Logger
	defaultCurrency string
	now             func() time.Time
}

func NewTripService(store repository.Store, feed realtime.Publisher, log logging.Logger, defaultCurrency string) *TripService {
	return &TripService{
		store:           store,
		notify:          notifier{feed: feed, log: log},
		log:             log,
		defaultCurrency: defaultCurrency,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CreateTrip stores a trip and makes requester its active admin.
func (s *TripService) CreateTrip(ctx context.Context, requester uuid.UUID, in TripInput) (models.Trip, error) {
	ve := &ledger.ValidationError{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		ve.Add("name", "is required")
	case utf8.RuneCountInString(name) > maxTripNameLength:
		ve.Add("name", "must be at most 200 characters")
	}
	if in.MaxMembers < 0 {
		ve.Add("max_members", "cannot be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if currency == "" {
		currency = ledger.DefaultCurrency
	}
	if !ledger.ValidCurrency(currency) {
		ve.Add("currency", "must be a 3-letter code")
	}
	if len(ve.Fields) > 0 {
		return models.Trip{}, ve
	}

	now := s.now()
	trip := models.Trip{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		MaxMembers:  in.MaxMembers,
		Currency:    currency,
		CreatorID:   requester,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return models.Trip{}, upstream("insert trip", err)
	}

	m := models.Membership{TripID: trip.ID, UserID: requester, Role: models.RoleAdmin, IsActive: true, JoinedAt: now}
	if err := s.store.UpsertMembership(ctx, m); err != nil {
		return models.Trip{}, upstream("insert creator membership", err)
	}
	s.notify.publish(ctx, trip.ID, realtime.TableTripMembers, realtime.OpInsert, m)
	return trip, nil
}

// GetTrip returns the trip and its active roster to members only.
func (s *TripService) GetTrip(ctx context.Context, tripID, requester uuid.UUID) (models.Trip, []models.Membership, error) {
	if _, err := activeMembership(ctx, s.store, tripID, requester); err != nil {
		return models.Trip{}, nil, err
	}
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return models.Trip{}, nil, upstream("load trip", err)
	}
	members, err := s.store.ListActiveMembers(ctx, tripID)
	if err != nil {
		return models.Trip{}, nil, upstream("list members", err)
	}
	return trip, members, nil
}

// JoinTrip adds requester as a guest, or reactivates a previous membership
// with its old role. Joining twice is a no-op.
func (s *TripService) JoinTrip(ctx context.Context, tripID, requester uuid.UUID) (models.Membership, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return models.Membership{}, upstream("load trip", err)
	}

	m, err := s.store.GetMembership(ctx, tripID, requester)
	switch {
	case err == nil && m.IsActive:
		return m, nil
	case err == nil:
		// inactive: keep role and joined_at
	case errors.Is(err, ledger.ErrNotFound):
		m = models.Membership{TripID: tripID, UserID: requester, Role: models.RoleGuest, JoinedAt: s.now()}
	default:
		return models.Membership{}, upstream("load membership", err)
	}

	if trip.MaxMembers > 0 {
		members, err := s.store.ListActiveMembers(ctx, tripID)
		if err != nil {
			return models.Membership{}, upstream("list members", err)
		}
		if len(members) >= trip.MaxMembers {
			return models.Membership{}, ledger.ErrTripFull
		}
	}

	m.IsActive = true
	if err := s.store.UpsertMembership(ctx, m); err != nil {
		return models.Membership{}, upstream("upsert membership", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableTripMembers, realtime.OpInsert, m)
	return m, nil
}

// LeaveTrip clears requester's active flag. Existing splits keep referencing
// the membership.
func (s *TripService) LeaveTrip(ctx context.Context, tripID, requester uuid.UUID) error {
	if _, err := activeMembership(ctx, s.store, tripID, requester); err != nil {
		return err
	}
	if err := s.store.SetMemberActive(ctx, tripID, requester, false); err != nil {
		return upstream("deactivate membership", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableTripMembers, realtime.OpUpdate,
		map[string]any{"trip_id": tripID, "user_id": requester, "is_active": false})
	return nil
}
