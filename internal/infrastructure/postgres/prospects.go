package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roofleads/backend/internal/domain"
)

const prospectSelect = `SELECT pr.id, pr.tenant, pr.project_id, pr.name, pr.company_name, pr.phone, pr.email,
	pr.is_homeowner, pr.is_dead, pr.status, pr.created_at, p.address, p.city, p.state
	FROM prospects pr JOIN projects p ON p.id = pr.project_id`

// CreateProspect inserts a prospect for an already synced project
func (s *Store) CreateProspect(ctx context.Context, p *domain.Prospect) error {
	query := `INSERT INTO prospects (id, tenant, project_id, name, company_name, phone, email, is_homeowner, is_dead, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Tenant, p.ProjectID, p.Name, p.CompanyName, p.Phone, p.Email, p.IsHomeowner, p.IsDead, p.Status, p.CreatedAt)
	if err != nil {
		return insertError(err, "prospect", p.ID)
	}
	return nil
}

// GetProspect returns domain.ErrNotFound for an unknown id
func (s *Store) GetProspect(ctx context.Context, id string) (*domain.Prospect, error) {
	var p domain.Prospect
	err := scanProspect(s.pool.QueryRow(ctx, prospectSelect+` WHERE pr.id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return &p, nil
}

// ListProspects returns one sorted page of a tenant's prospects
func (s *Store) ListProspects(ctx context.Context, q domain.ProspectQuery) ([]domain.Prospect, error) {
	w := prospectFilter(q)
	if q.HomeownersOnly {
		w.add("pr.is_homeowner")
	}
	query := prospectSelect + w.sql() + prospectOrder(q) + page(w, q.Limit, q.Offset)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	prospects := []domain.Prospect{}
	for rows.Next() {
		var p domain.Prospect
		if err := scanProspect(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, p)
	}
	return prospects, rows.Err()
}

// CountProspects returns the number of matching prospects and, ignoring the homeowner filter, how many are homeowners
func (s *Store) CountProspects(ctx context.Context, q domain.ProspectQuery) (int, int, error) {
	query, args := countProspectsQuery(q)

	var total, homeowners int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total, &homeowners); err != nil {
		return 0, 0, fmt.Errorf("failed to count prospects: %w", err)
	}
	return total, homeowners, nil
}

// countProspectsQuery counts in one pass: the total honours the homeowner filter, the homeowner count does not
func countProspectsQuery(q domain.ProspectQuery) (string, []any) {
	w := prospectFilter(q)
	totalFilter := "true"
	if q.HomeownersOnly {
		totalFilter = "pr.is_homeowner"
	}
	query := `SELECT count(*) FILTER (WHERE ` + totalFilter + `), count(*) FILTER (WHERE pr.is_homeowner)
		FROM prospects pr` + w.sql()
	return query, w.args
}

// UpdateProspectStatus sets or clears (nil) the call status
func (s *Store) UpdateProspectStatus(ctx context.Context, id string, status *string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE prospects SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update prospect status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProspect(row pgx.Row, p *domain.Prospect) error {
	var summary domain.ProjectSummary
	err := row.Scan(
		&p.ID, &p.Tenant, &p.ProjectID, &p.Name, &p.CompanyName, &p.Phone, &p.Email,
		&p.IsHomeowner, &p.IsDead, &p.Status, &p.CreatedAt,
		&summary.Address, &summary.City, &summary.State,
	)
	if err != nil {
		return err
	}
	p.Project = &summary
	return nil
}
