package item

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no item record exists for the requested owner.
var ErrNotFound = errors.New("item record not found")

// Repository persists item records.
type Repository interface {
	FindByOwnerPhone(ctx context.Context, phone string) (Record, error)
	Save(ctx context.Context, rec Record) error
}

// PostgresRepository stores item records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByOwnerPhone fetches the item record belonging to the given phone number.
func (r *PostgresRepository) FindByOwnerPhone(ctx context.Context, phone string) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT id, owner_phone, status, item_names, created_at FROM items WHERE owner_phone = $1`, phone)
	var (
		id        uuid.UUID
		createdAt time.Time
		rec       Record
	)
	if err := row.Scan(&id, &rec.OwnerPhone, &rec.Status, &rec.ItemNames, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.ID = id.String()
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}

// Save upserts an item record keyed by owner phone.
func (r *PostgresRepository) Save(ctx context.Context, rec Record) error {
	recID, err := uuid.Parse(rec.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO items (id, owner_phone, status, item_names, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (owner_phone) DO UPDATE SET status = EXCLUDED.status, item_names = EXCLUDED.item_names`,
		recID, rec.OwnerPhone, rec.Status, rec.ItemNames, rec.CreatedAt.UTC())
	return err
}
