// Package realtime carries per-trip change notifications between the ledger
// service and open trip views. Events are refresh triggers; consumers never
// merge Row into their state.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Table string

const (
	TableBudgetItems  Table = "budget_items"
	TableBudgetSplits Table = "budget_splits"
	TableTripMembers  Table = "trip_members"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one change on a trip's ledger.
type Event struct {
	TripID uuid.UUID       `json:"trip_id"`
	Table  Table           `json:"table"`
	Op     Op              `json:"op"`
	Row    json.RawMessage `json:"row,omitempty"`
}

// NewEvent builds an event with row encoded as JSON. A nil row is allowed.
func NewEvent(tripID uuid.UUID, table Table, op Op, row any) (Event, error) {
	ev := Event{TripID: tripID, Table: table, Op: op}
	if row == nil {
		return ev, nil
	}
	b, err := json.Marshal(row)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s row: %w", table, err)
	}
	ev.Row = b
	return ev, nil
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscription delivers events for one trip until closed. Events is closed
// after Close returns or when the underlying transport fails.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, tripID uuid.UUID) (Subscription, error)
}

// Feed is both ends of the change feed.
type Feed interface {
	Publisher
	Subscriber
}

// Channel is the transport channel name for a trip. It is a valid unquoted
// Postgres identifier.
func Channel(tripID uuid.UUID) string {
	return "budget_" + strings.ReplaceAll(tripID.String(), "-", "")
}

// subscriptionBuffer bounds per-subscriber queues. Events beyond it are
// dropped, which is harmless for refresh triggers as long as one is queued.
const subscriptionBuffer = 16
