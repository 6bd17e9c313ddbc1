package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roofleads/backend/internal/domain"
)

const businessUserColumns = `id, name, email, phone, company_name, slug, status, password_hash, created_at`

// CreateBusinessUser inserts a new account. A taken email yields domain.ErrAlreadyExists.
func (s *Store) CreateBusinessUser(ctx context.Context, u *domain.BusinessUser) error {
	query := `INSERT INTO business_users (` + businessUserColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.Phone, u.CompanyName, u.Slug, u.Status, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return insertError(err, "business user", u.Email)
	}
	return nil
}

// UpsertBusinessUser creates the account or overwrites the one with the same email.
// The stored id wins on conflict and is written back to u.
func (s *Store) UpsertBusinessUser(ctx context.Context, u *domain.BusinessUser) error {
	query := `INSERT INTO business_users (` + businessUserColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			company_name = EXCLUDED.company_name,
			slug = EXCLUDED.slug,
			status = EXCLUDED.status,
			password_hash = EXCLUDED.password_hash
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.Phone, u.CompanyName, u.Slug, u.Status, u.PasswordHash, u.CreatedAt,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert business user: %w", err)
	}
	return nil
}

// FindBusinessUserByEmail returns domain.ErrNotFound when no account has the email
func (s *Store) FindBusinessUserByEmail(ctx context.Context, email string) (*domain.BusinessUser, error) {
	var u domain.BusinessUser
	err := scanBusinessUser(s.pool.QueryRow(ctx,
		`SELECT `+businessUserColumns+` FROM business_users WHERE email = $1`, email), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find business user by email: %w", err)
	}
	return &u, nil
}

// ListBusinessUsers returns the newest accounts first
func (s *Store) ListBusinessUsers(ctx context.Context, limit int) ([]domain.BusinessUser, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+businessUserColumns+` FROM business_users ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list business users: %w", err)
	}
	defer rows.Close()

	users := []domain.BusinessUser{}
	for rows.Next() {
		var u domain.BusinessUser
		if err := scanBusinessUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan business user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanBusinessUser(row pgx.Row, u *domain.BusinessUser) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CompanyName, &u.Slug, &u.Status, &u.PasswordHash, &u.CreatedAt)
}
