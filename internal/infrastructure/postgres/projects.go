package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roofleads/backend/internal/domain"
)

// UpsertProject writes a synced project and replaces its labels in one transaction
func (s *Store) UpsertProject(ctx context.Context, p *domain.ProjectRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (id, tenant, name, address, city, state, postal_code, status, photo_count,
			public_url, feature_image, lat, lon, geohash, cc_created_at, cc_updated_at, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			tenant = EXCLUDED.tenant,
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code,
			status = EXCLUDED.status,
			photo_count = EXCLUDED.photo_count,
			public_url = EXCLUDED.public_url,
			feature_image = EXCLUDED.feature_image,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			geohash = EXCLUDED.geohash,
			cc_created_at = EXCLUDED.cc_created_at,
			cc_updated_at = EXCLUDED.cc_updated_at,
			last_synced_at = EXCLUDED.last_synced_at`,
		p.ID, p.Tenant, p.Name, p.Address, p.City, p.State, p.PostalCode, p.Status, p.PhotoCount,
		p.PublicURL, p.FeatureImage, p.Lat, p.Lon, p.Geohash, p.CCCreatedAt, p.CCUpdatedAt, p.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert project %s: %w", p.ID, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM project_labels WHERE project_id = $1`, p.ID)
	for _, l := range p.Tags {
		batch.Queue(`INSERT INTO project_labels (project_id, label_id, display_value, value, tag_type)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			p.ID, l.ID, l.DisplayValue, l.Value, l.TagType)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to replace labels of project %s: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project %s: %w", p.ID, err)
	}
	return nil
}

// ListProjects returns one page of projects with their labels and prospects, plus the total match count
func (s *Store) ListProjects(ctx context.Context, q domain.ProjectQuery) ([]domain.ProjectRecord, int, error) {
	w := projectFilter(q)
	where := w.sql()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM projects p`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `SELECT p.id, p.tenant, p.name, p.address, p.city, p.state, p.postal_code, p.status, p.photo_count,
			p.public_url, p.feature_image, p.lat, p.lon, p.geohash, p.cc_created_at, p.cc_updated_at, p.last_synced_at,
			(SELECT count(*) FROM prospects x WHERE x.project_id = p.id) AS prospect_count
		FROM projects p` + where + projectOrder(q) + page(w, q.Limit, q.Offset)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.ProjectRecord{}
	index := map[string]int{}
	for rows.Next() {
		var p domain.ProjectRecord
		err := rows.Scan(&p.ID, &p.Tenant, &p.Name, &p.Address, &p.City, &p.State, &p.PostalCode, &p.Status, &p.PhotoCount,
			&p.PublicURL, &p.FeatureImage, &p.Lat, &p.Lon, &p.Geohash, &p.CCCreatedAt, &p.CCUpdatedAt, &p.LastSyncedAt,
			&p.ProspectCount)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Tags = []domain.Label{}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		return projects, total, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	if err := s.attachLabels(ctx, ids, projects, index); err != nil {
		return nil, 0, err
	}
	if err := s.attachProspects(ctx, ids, projects, index); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (s *Store) attachLabels(ctx context.Context, ids []string, projects []domain.ProjectRecord, index map[string]int) error {
	rows, err := s.pool.Query(ctx, `SELECT project_id, label_id, display_value, value, tag_type
		FROM project_labels WHERE project_id = ANY($1) ORDER BY display_value`, ids)
	if err != nil {
		return fmt.Errorf("failed to load project labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var l domain.Label
		if err := rows.Scan(&projectID, &l.ID, &l.DisplayValue, &l.Value, &l.TagType); err != nil {
			return fmt.Errorf("failed to scan project label: %w", err)
		}
		if i, ok := index[projectID]; ok {
			projects[i].Tags = append(projects[i].Tags, l)
		}
	}
	return rows.Err()
}

func (s *Store) attachProspects(ctx context.Context, ids []string, projects []domain.ProjectRecord, index map[string]int) error {
	rows, err := s.pool.Query(ctx, `SELECT project_id, id, name, is_homeowner, status
		FROM prospects WHERE project_id = ANY($1) ORDER BY is_homeowner DESC, name`, ids)
	if err != nil {
		return fmt.Errorf("failed to load project prospects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var b domain.ProspectBrief
		if err := rows.Scan(&projectID, &b.ID, &b.Name, &b.IsHomeowner, &b.Status); err != nil {
			return fmt.Errorf("failed to scan project prospect: %w", err)
		}
		if i, ok := index[projectID]; ok {
			projects[i].Prospects = append(projects[i].Prospects, b)
		}
	}
	return rows.Err()
}

// ListTags returns the distinct labels used on a tenant's projects, sorted by display value
func (s *Store) ListTags(ctx context.Context, tenant string) ([]domain.Label, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (lower(l.display_value)) l.label_id, l.display_value, l.value, l.tag_type
		FROM project_labels l JOIN projects p ON p.id = l.project_id
		WHERE p.tenant = $1 AND l.display_value <> ''
		ORDER BY lower(l.display_value), l.label_id`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Label{}
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.DisplayValue, &l.Value, &l.TagType); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, l)
	}
	return tags, rows.Err()
}
