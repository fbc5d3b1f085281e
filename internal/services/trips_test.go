package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/repository"
)

func TestCreateTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewTripService(repository.NewMemory(), nil, logging.Discard(), "THB")
	owner := uuid.New()

	trip, err := svc.CreateTrip(ctx, owner, TripInput{Name: "  Hanoi  "})
	require.NoError(t, err)
	assert.Equal(t, "Hanoi", trip.Name)
	assert.Equal(t, "THB", trip.Currency)

	got, members, err := svc.GetTrip(ctx, trip.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
	assert.True(t, members[0].IsAdmin())

	_, _, err = svc.GetTrip(ctx, trip.ID, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotAuthorized)

	_, err = svc.CreateTrip(ctx, owner, TripInput{Name: "", Currency: "EURO", MaxMembers: -1})
	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "currency")
	assert.Contains(t, ve.Fields, "max_members")
}

func TestJoinAndLeaveTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewTripService(repository.NewMemory(), nil, logging.Discard(), "")
	owner, guest, late := uuid.New(), uuid.New(), uuid.New()

	trip, err := svc.CreateTrip(ctx, owner, TripInput{Name: "Seoul", MaxMembers: 2})
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultCurrency, trip.Currency)

	m, err := svc.JoinTrip(ctx, trip.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, m.Role)

	again, err := svc.JoinTrip(ctx, trip.ID, guest)
	require.NoError(t, err, "joining twice is a no-op")
	assert.Equal(t, m.JoinedAt, again.JoinedAt)

	_, err = svc.JoinTrip(ctx, trip.ID, late)
	assert.ErrorIs(t, err, ledger.ErrTripFull)

	require.NoError(t, svc.LeaveTrip(ctx, trip.ID, guest))
	assert.ErrorIs(t, svc.LeaveTrip(ctx, trip.ID, guest), ledger.ErrNotAuthorized)

	_, err = svc.JoinTrip(ctx, trip.ID, late)
	require.NoError(t, err, "a seat freed up")

	_, err = svc.JoinTrip(ctx, uuid.New(), late)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
