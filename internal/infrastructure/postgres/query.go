package postgres

import (
	"strconv"
	"strings"

	"github.com/roofleads/backend/internal/domain"
)

// whereBuilder accumulates AND-ed conditions with positional arguments
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registers a value and returns its placeholder
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// likePattern escapes LIKE metacharacters and wraps s for a contains match
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

var projectSortColumns = map[string]string{
	"address":       "p.address",
	"city":          "p.city",
	"state":         "p.state",
	"photoCount":    "p.photo_count",
	"lastSyncedAt":  "p.last_synced_at",
	"ccCreatedAt":   "p.cc_created_at",
	"prospectCount": "prospect_count",
}

var prospectSortColumns = map[string]string{
	"name":        "pr.name",
	"createdAt":   "pr.created_at",
	"isHomeowner": "pr.is_homeowner",
	"companyName": "pr.company_name",
}

func projectFilter(q domain.ProjectQuery) *whereBuilder {
	w := &whereBuilder{}
	w.add("p.tenant = " + w.arg(q.Tenant))

	if q.Status != "" {
		w.add("p.status = " + w.arg(q.Status))
	}
	if q.Address != "" {
		w.add("p.address ILIKE " + w.arg(likePattern(q.Address)))
	}
	if q.City != "" {
		w.add("p.city ILIKE " + w.arg(likePattern(q.City)))
	}
	if q.State != "" {
		w.add("p.state ILIKE " + w.arg(likePattern(q.State)))
	}
	if q.Text != "" {
		ph := w.arg(likePattern(q.Text))
		w.add("(p.address ILIKE " + ph + " OR p.city ILIKE " + ph + " OR p.state ILIKE " + ph + ")")
	}
	if q.Tag != "" {
		ph := w.arg(strings.ToLower(q.Tag))
		w.add("EXISTS (SELECT 1 FROM project_labels l WHERE l.project_id = p.id AND (lower(l.value) = " + ph + " OR lower(l.display_value) = " + ph + "))")
	}
	if q.HasProspects != nil {
		exists := "EXISTS (SELECT 1 FROM prospects x WHERE x.project_id = p.id)"
		if *q.HasProspects {
			w.add(exists)
		} else {
			w.add("NOT " + exists)
		}
	}
	return w
}

func projectOrder(q domain.ProjectQuery) string {
	col, ok := projectSortColumns[q.SortBy]
	if !ok {
		col = "p.last_synced_at"
	}
	return " ORDER BY " + col + direction(q.SortDesc) + " NULLS LAST, p.id"
}

func prospectFilter(q domain.ProspectQuery) *whereBuilder {
	w := &whereBuilder{}
	w.add("pr.tenant = " + w.arg(q.Tenant))
	if q.ProjectID != "" {
		w.add("pr.project_id = " + w.arg(q.ProjectID))
	}
	return w
}

func prospectOrder(q domain.ProspectQuery) string {
	col, ok := prospectSortColumns[q.SortBy]
	if !ok {
		col = "pr.created_at"
	}
	return " ORDER BY " + col + direction(q.SortDesc) + ", pr.id"
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}

func page(w *whereBuilder, limit, offset int) string {
	return " LIMIT " + w.arg(limit) + " OFFSET " + w.arg(offset)
}
