package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no account exists for the requested key.
var ErrNotFound = errors.New("account not found")

// Repository persists accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByReferenceCode(ctx context.Context, code string) (Account, error)
	Save(ctx context.Context, acct Account) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, name, phone, password_hash, status, reference_code, referred_by_code, item_names, referral_count, created_at`

// FindByEmail fetches an account by its contact email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByReferenceCode fetches an account by its self-referral code.
func (r *PostgresRepository) FindByReferenceCode(ctx context.Context, code string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE reference_code = $1`, code)
	return scanAccount(row)
}

// Save upserts an account keyed by email.
func (r *PostgresRepository) Save(ctx context.Context, acct Account) error {
	acctID, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, email, name, phone, password_hash, status, reference_code, referred_by_code, item_names, referral_count, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (email) DO UPDATE SET
            name = EXCLUDED.name,
            phone = EXCLUDED.phone,
            password_hash = EXCLUDED.password_hash,
            status = EXCLUDED.status,
            referred_by_code = EXCLUDED.referred_by_code,
            item_names = EXCLUDED.item_names,
            referral_count = EXCLUDED.referral_count`,
		acctID, acct.Email, acct.Name, acct.Phone, acct.PasswordHash, acct.Status,
		acct.ReferenceCode, acct.ReferredByCode, acct.ItemNames, acct.ReferralCount, acct.CreatedAt.UTC())
	return err
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		acct      Account
	)
	err := row.Scan(&id, &acct.Email, &acct.Name, &acct.Phone, &acct.PasswordHash, &acct.Status,
		&acct.ReferenceCode, &acct.ReferredByCode, &acct.ItemNames, &acct.ReferralCount, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acct.ID = id.String()
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}
