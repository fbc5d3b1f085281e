package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres implements Store over a DBTX.
type Postgres struct {
	db DBTX
}

// NewPostgres returns a Store bound to db.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ledger.ErrNotFound)
	}
	return fmt.Errorf("select %s: %w", what, err)
}

func (p *Postgres) CreateTrip(ctx context.Context, t models.Trip) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO trips (id, name, description, max_members, currency, creator_id, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Description, t.MaxMembers, t.Currency, t.CreatorID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (p *Postgres) GetTrip(ctx context.Context, tripID uuid.UUID) (models.Trip, error) {
	var t models.Trip
	err := p.db.QueryRow(ctx,
		`SELECT id, name, description, max_members, currency, creator_id, created_at, updated_at
           FROM trips WHERE id = $1`, tripID).Scan(
		&t.ID, &t.Name, &t.Description, &t.MaxMembers, &t.Currency, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Trip{}, notFound(err, "trip")
	}
	return t, nil
}

func (p *Postgres) GetMembership(ctx context.Context, tripID, userID uuid.UUID) (models.Membership, error) {
	var m models.Membership
	err := p.db.QueryRow(ctx,
		`SELECT trip_id, user_id, role, is_active, joined_at
           FROM trip_members WHERE trip_id = $1 AND user_id = $2`, tripID, userID).Scan(
		&m.TripID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt,
	)
	if err != nil {
		return models.Membership{}, notFound(err, "membership")
	}
	return m, nil
}

func (p *Postgres) ListActiveMembers(ctx context.Context, tripID uuid.UUID) ([]models.Membership, error) {
	rows, err := p.db.Query(ctx,
		`SELECT trip_id, user_id, role, is_active, joined_at
           FROM trip_members
          WHERE trip_id = $1 AND is_active = TRUE
          ORDER BY joined_at, user_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.TripID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func (p *Postgres) UpsertMembership(ctx context.Context, m models.Membership) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO trip_members (trip_id, user_id, role, is_active, joined_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (trip_id, user_id)
         DO UPDATE SET role = EXCLUDED.role, is_active = EXCLUDED.is_active`,
		m.TripID, m.UserID, m.Role, m.IsActive, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

func (p *Postgres) SetMemberActive(ctx context.Context, tripID, userID uuid.UUID, active bool) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE trip_members SET is_active = $3 WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID, active,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membership: %w", ledger.ErrNotFound)
	}
	return nil
}

const itemColumns = `id, trip_id, title, description, amount, currency, category, paid_by,
                split_type, is_paid, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (models.BudgetItem, error) {
	var it models.BudgetItem
	err := row.Scan(
		&it.ID, &it.TripID, &it.Title, &it.Description, &it.Amount, &it.Currency, &it.Category, &it.PaidBy,
		&it.SplitType, &it.IsPaid, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

func (p *Postgres) ListItems(ctx context.Context, tripID uuid.UUID) ([]models.BudgetItem, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+itemColumns+`
           FROM budget_items
          WHERE trip_id = $1
          ORDER BY created_at DESC, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select budget items: %w", err)
	}
	defer rows.Close()

	items := make([]models.BudgetItem, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		it.Splits = make([]models.Split, 0)
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget items: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	srows, err := p.db.Query(ctx,
		`SELECT s.id, s.budget_item_id, s.user_id, s.amount, s.is_paid
           FROM budget_splits s
           JOIN budget_items bi ON bi.id = s.budget_item_id
          WHERE bi.trip_id = $1
          ORDER BY s.user_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select budget splits: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var s models.Split
		if err := srows.Scan(&s.ID, &s.ItemID, &s.UserID, &s.Amount, &s.IsPaid); err != nil {
			return nil, fmt.Errorf("scan budget split: %w", err)
		}
		if i, ok := index[s.ItemID]; ok {
			items[i].Splits = append(items[i].Splits, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget splits: %w", err)
	}
	return items, nil
}

func (p *Postgres) GetItem(ctx context.Context, tripID, itemID uuid.UUID) (models.BudgetItem, error) {
	it, err := scanItem(p.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM budget_items WHERE id = $1 AND trip_id = $2`, itemID, tripID))
	if err != nil {
		return models.BudgetItem{}, notFound(err, "budget item")
	}
	splits, err := p.ListSplits(ctx, itemID)
	if err != nil {
		return models.BudgetItem{}, err
	}
	it.Splits = splits
	return it, nil
}

func (p *Postgres) InsertItem(ctx context.Context, it models.BudgetItem) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO budget_items (`+itemColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		it.ID, it.TripID, it.Title, it.Description, it.Amount, it.Currency, it.Category, it.PaidBy,
		it.SplitType, it.IsPaid, it.CreatedBy, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert budget item: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateItem(ctx context.Context, it models.BudgetItem) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE budget_items
            SET title = $1,
                description = $2,
                amount = $3,
                currency = $4,
                category = $5,
                paid_by = $6,
                split_type = $7,
                is_paid = $8,
                updated_at = $9
          WHERE id = $10 AND trip_id = $11`,
		it.Title, it.Description, it.Amount, it.Currency, it.Category, it.PaidBy,
		it.SplitType, it.IsPaid, it.UpdatedAt, it.ID, it.TripID,
	)
	if err != nil {
		return fmt.Errorf("update budget item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget item: %w", ledger.ErrNotFound)
	}
	return nil
}

func (p *Postgres) DeleteItem(ctx context.Context, tripID, itemID uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM budget_items WHERE id = $1 AND trip_id = $2`, itemID, tripID)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget item: %w", ledger.ErrNotFound)
	}
	return nil
}

func (p *Postgres) ListSplits(ctx context.Context, itemID uuid.UUID) ([]models.Split, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, budget_item_id, user_id, amount, is_paid
           FROM budget_splits WHERE budget_item_id = $1
          ORDER BY user_id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("select budget splits: %w", err)
	}
	defer rows.Close()

	splits := make([]models.Split, 0)
	for rows.Next() {
		var s models.Split
		if err := rows.Scan(&s.ID, &s.ItemID, &s.UserID, &s.Amount, &s.IsPaid); err != nil {
			return nil, fmt.Errorf("scan budget split: %w", err)
		}
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget splits: %w", err)
	}
	return splits, nil
}

func (p *Postgres) InsertSplits(ctx context.Context, splits []models.Split) error {
	if len(splits) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, s := range splits {
			batch.Queue(
				`INSERT INTO budget_splits (id, budget_item_id, user_id, amount, is_paid)
                 VALUES ($1, $2, $3, $4, $5)`,
				s.ID, s.ItemID, s.UserID, s.Amount, s.IsPaid,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert budget splits: %w", err)
		}
		return nil
	})
}

func (p *Postgres) DeleteSplits(ctx context.Context, itemID uuid.UUID) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM budget_splits WHERE budget_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete budget splits: %w", err)
	}
	return nil
}
