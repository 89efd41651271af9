package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no wallet exists for the requested owner.
var ErrNotFound = errors.New("wallet not found")

// Repository persists wallets.
type Repository interface {
	FindByOwnerPhone(ctx context.Context, phone string) (Wallet, error)
	Save(ctx context.Context, w Wallet) error
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByOwnerPhone fetches the wallet belonging to the given phone number.
func (r *PostgresRepository) FindByOwnerPhone(ctx context.Context, phone string) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, owner_phone, balance, created_at FROM wallets WHERE owner_phone = $1`, phone)
	var (
		id        uuid.UUID
		createdAt time.Time
		w         Wallet
	)
	if err := row.Scan(&id, &w.OwnerPhone, &w.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

// Save upserts a wallet keyed by owner phone.
func (r *PostgresRepository) Save(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_phone, balance, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (owner_phone) DO UPDATE SET balance = EXCLUDED.balance`,
		walletID, w.OwnerPhone, w.Balance, w.CreatedAt.UTC())
	return err
}
