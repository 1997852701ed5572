package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"video-library/internal/logging"
)

// SortField names one of the four sortable video columns.
type SortField string

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortByFilename SortField = "filename"
	SortBySize     SortField = "size"
	SortByCreated  SortField = "created_at"
	SortByUpdated  SortField = "updated_at"
	SortAsc        SortOrder = "asc"
	SortDesc       SortOrder = "desc"
)

// queryPlan is a compiled filter: join requirements, conjunctive predicate
// fragments, and their bound arguments. Fragments are assembled into
// parameterized SQL; filter values never reach the query text itself.
type queryPlan struct {
	joins []string
	conds []string
	args  []interface{}
}

func (p *queryPlan) join(clause string) {
	p.joins = append(p.joins, clause)
}

func (p *queryPlan) where(expr string, args ...interface{}) {
	p.conds = append(p.conds, expr)
	p.args = append(p.args, args...)
}

// whereIn adds an IN-set membership clause. Empty sets must be rejected by
// the caller; an empty facet never constrains results.
func (p *queryPlan) whereIn(column string, ids []string) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	p.conds = append(p.conds, fmt.Sprintf("%s IN (%s)", column, placeholders))
	for _, id := range ids {
		p.args = append(p.args, id)
	}
}

// fromClause renders "videos v" plus any required association joins.
func (p *queryPlan) fromClause() string {
	var b strings.Builder
	b.WriteString("FROM videos v")
	for _, j := range p.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	return b.String()
}

// whereClause renders the conjunctive predicate, or "" when unconstrained.
func (p *queryPlan) whereClause() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// compileFilter translates a FilterOptions into a queryPlan. A facet with a
// non-empty id set requires a join against its association table; facets
// compose with AND, ids within a facet with OR (IN).
func compileFilter(filter *FilterOptions) *queryPlan {
	plan := &queryPlan{}

	if filter.FolderPath != "" {
		cond, args := folderScope("v.folder_path", filter.FolderPath)
		plan.where(cond, args...)
	}

	if len(filter.TagIDs) > 0 {
		plan.join("INNER JOIN video_tags vt ON v.id = vt.video_id")
		plan.whereIn("vt.tag_id", filter.TagIDs)
	}

	if len(filter.ParticipantIDs) > 0 {
		plan.join("INNER JOIN video_participants vp ON v.id = vp.video_id")
		plan.whereIn("vp.participant_id", filter.ParticipantIDs)
	}

	if len(filter.LanguageIDs) > 0 {
		plan.join("INNER JOIN video_languages vl ON v.id = vl.video_id")
		plan.whereIn("vl.language_id", filter.LanguageIDs)
	}

	if filter.Search != "" {
		plan.where("v.filename LIKE ?", "%"+filter.Search+"%")
	}

	return plan
}

// sortColumn resolves the sort key to one of the four fixed columns.
// Unrecognized keys fall back to filename; sort is a convenience, not a
// correctness-critical input.
func sortColumn(field string) string {
	switch SortField(field) {
	case SortBySize:
		return "v.size"
	case SortByCreated:
		return "v.created_at"
	case SortByUpdated:
		return "v.updated_at"
	default:
		return "v.filename"
	}
}

func sortDirection(order string) string {
	if SortOrder(order) == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// normalizePage applies the default page window and caps oversized pages.
func normalizePage(filter *FilterOptions) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
}

// ListVideos answers one filtered, sorted, paginated catalog query. Because
// association joins can multiply rows, results are deduplicated by record id
// before the page window is applied. Total comes from a separate count query
// with the identical predicate; the two queries are not atomic with respect
// to concurrent mutation.
func (d *Database) ListVideos(ctx context.Context, filter *FilterOptions) (*VideoPage, error) {
	start := time.Now()
	normalizePage(filter)
	plan := compileFilter(filter)

	total, err := d.countVideos(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	done := observeQuery("list_videos")

	selectQuery := fmt.Sprintf(
		"SELECT DISTINCT v.id, v.path, v.filename, v.folder_path, v.size, v.duration, v.thumbnail_path, v.created_at, v.updated_at %s%s ORDER BY %s %s LIMIT ? OFFSET ?",
		plan.fromClause(), plan.whereClause(),
		sortColumn(filter.SortBy), sortDirection(filter.SortOrder),
	)
	selectArgs := append(append([]interface{}{}, plan.args...), filter.Limit, filter.Offset)

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, selectQuery, selectArgs...)
	d.mu.RUnlock()

	if err != nil {
		done(err)
		return nil, fmt.Errorf("select query failed: %w", err)
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			done(err)
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, fmt.Errorf("rows error: %w", err)
	}
	done(nil)

	logging.Debug("ListVideos: %d/%d records in %v", len(videos), total, time.Since(start))

	return &VideoPage{
		Videos:  videos,
		Total:   total,
		HasMore: filter.Offset+len(videos) < total,
	}, nil
}

// countVideos runs the count half of a listing with the same predicate and
// joins, without the page window.
func (d *Database) countVideos(ctx context.Context, plan *queryPlan) (int, error) {
	done := observeQuery("count_videos")

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT v.id) %s%s", plan.fromClause(), plan.whereClause())

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int
	err := d.db.QueryRowContext(ctx, countQuery, plan.args...).Scan(&total)
	done(err)
	return total, err
}
