package referral

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists referral records.
type Repository interface {
	Save(ctx context.Context, ref Referral) error
	CountByReferrerPhone(ctx context.Context, phone string) (int, error)
}

// PostgresRepository stores referrals in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save appends a referral record.
func (r *PostgresRepository) Save(ctx context.Context, ref Referral) error {
	refID, err := uuid.Parse(ref.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO referrals (id, referrer_phone, bonus, created_at)
        VALUES ($1, $2, $3, $4)`, refID, ref.ReferrerPhone, ref.Bonus, ref.CreatedAt.UTC())
	return err
}

// CountByReferrerPhone counts referral records credited to the given phone number.
func (r *PostgresRepository) CountByReferrerPhone(ctx context.Context, phone string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM referrals WHERE referrer_phone = $1`, phone).Scan(&count)
	return count, err
}
