package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roofleads/backend/internal/domain"
)

const leadColumns = `id, tenant, source, first_name, last_name, email, phone, address, project_id,
	flow_type, flow_slug, flow_data, qualify_score, urgency_level, utm_source, utm_medium, utm_campaign, created_at`

// CreateLead inserts a lead
func (s *Store) CreateLead(ctx context.Context, l *domain.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := s.pool.Exec(ctx, query,
		l.ID, l.Tenant, l.Source, l.FirstName, l.LastName, l.Email, l.Phone, l.Address, l.ProjectID,
		l.FlowType, l.FlowSlug, l.FlowData, l.QualifyScore, l.UrgencyLevel,
		l.UTMSource, l.UTMMedium, l.UTMCampaign, l.CreatedAt,
	)
	if err != nil {
		return insertError(err, "lead", l.ID)
	}
	return nil
}

// ListLeads returns a tenant's most recent leads
func (s *Store) ListLeads(ctx context.Context, tenant string, limit int) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		var l domain.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// GetLead returns a lead by id
func (s *Store) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	var l domain.Lead
	err := scanLead(s.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

func scanLead(row pgx.Row, l *domain.Lead) error {
	return row.Scan(
		&l.ID, &l.Tenant, &l.Source, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Address, &l.ProjectID,
		&l.FlowType, &l.FlowSlug, &l.FlowData, &l.QualifyScore, &l.UrgencyLevel,
		&l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.CreatedAt,
	)
}
