package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/roofleads/backend/internal/domain"
)

// createdAtQueries selects creation timestamps per chart entity
var createdAtQueries = map[domain.StatsEntity]string{
	domain.StatsLeads:     `SELECT created_at FROM leads WHERE tenant = $1 AND created_at >= $2`,
	domain.StatsProjects:  `SELECT COALESCE(cc_created_at, created_at) AS ts FROM projects WHERE tenant = $1 AND COALESCE(cc_created_at, created_at) >= $2`,
	domain.StatsProspects: `SELECT created_at FROM prospects WHERE tenant = $1 AND created_at >= $2`,
}

// CreatedSince returns creation times of the entity's rows for the tenant on or after since
func (s *Store) CreatedSince(ctx context.Context, entity domain.StatsEntity, tenant string, since time.Time) ([]time.Time, error) {
	query, ok := createdAtQueries[entity]
	if !ok {
		return nil, fmt.Errorf("%w: unknown stats type %q", domain.ErrInvalidRequest, entity)
	}

	rows, err := s.pool.Query(ctx, query, tenant, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s stats: %w", entity, err)
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		times = append(times, ts)
	}
	return times, rows.Err()
}
