package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

// levelColumns maps hierarchy levels to the owning-chain column on observation_sessions and
// the table holding entity names. Only these identifiers are ever interpolated into SQL.
var levelColumns = map[models.HierarchyLevel]struct {
	column string
	table  string
}{
	models.LevelZone:       {column: "zone_id", table: "zones"},
	models.LevelProvince:   {column: "province_id", table: "provinces"},
	models.LevelDepartment: {column: "department_id", table: "departments"},
	models.LevelCluster:    {column: "cluster_id", table: "clusters"},
	models.LevelSchool:     {column: "school_id", table: "schools"},
}

const sessionFactSelect = `SELECT s.id AS session_id, s.date_observed, s.status,
        COALESCE((SELECT SUM(r.score) FROM indicator_responses r WHERE r.session_id = s.id), 0) AS score_sum,
        (SELECT COUNT(*) FROM indicator_responses r WHERE r.session_id = s.id) AS response_count,
        (SELECT COUNT(*) FROM improvement_plans p WHERE p.session_id = s.id) AS plan_count,
        COALESCE(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 60, 0) AS duration_minutes`

// ObservationRepository is the scoped record source for sessions, indicator responses and plans.
type ObservationRepository struct {
	db *sqlx.DB
}

// NewObservationRepository instantiates the repository.
func NewObservationRepository(db *sqlx.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// writeScope renders the scope predicate. It is the only place a predicate becomes SQL and is
// always written before any ad-hoc filter.
func writeScope(builder *strings.Builder, args []interface{}, scope models.ScopePredicate) []interface{} {
	switch {
	case scope.Unrestricted:
		return args
	case scope.Level != "" && scope.EntityID != "":
		col, ok := levelColumns[scope.Level]
		if !ok {
			builder.WriteString(" AND FALSE")
			return args
		}
		args = append(args, scope.EntityID)
		builder.WriteString(fmt.Sprintf(" AND s.%s = $%d", col.column, len(args)))
	case scope.ObserverID != "":
		args = append(args, scope.ObserverID)
		builder.WriteString(fmt.Sprintf(" AND s.observer_id = $%d", len(args)))
	default:
		builder.WriteString(" AND FALSE")
	}
	return args
}

// writeConditions appends the scope followed by the filter restrictions on alias s.
func writeConditions(builder *strings.Builder, args []interface{}, scope models.ScopePredicate, filter models.MetricFilter) []interface{} {
	args = writeScope(builder, args, scope)
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		builder.WriteString(fmt.Sprintf(" AND s.date_observed >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		builder.WriteString(fmt.Sprintf(" AND s.date_observed <= $%d", len(args)))
	}
	if len(filter.Grades) > 0 {
		args = append(args, pq.Array(filter.Grades))
		builder.WriteString(fmt.Sprintf(" AND s.grade = ANY($%d)", len(args)))
	}
	if len(filter.Subjects) > 0 {
		args = append(args, pq.Array(filter.Subjects))
		builder.WriteString(fmt.Sprintf(" AND s.subject = ANY($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, pq.Array(filter.Statuses))
		builder.WriteString(fmt.Sprintf(" AND s.status = ANY($%d)", len(args)))
	}
	if len(filter.ObserverIDs) > 0 {
		args = append(args, pq.Array(filter.ObserverIDs))
		builder.WriteString(fmt.Sprintf(" AND s.observer_id = ANY($%d)", len(args)))
	}
	if filter.Entity != nil {
		col, ok := levelColumns[filter.Entity.Level]
		if !ok {
			builder.WriteString(" AND FALSE")
			return args
		}
		args = append(args, filter.Entity.ID)
		builder.WriteString(fmt.Sprintf(" AND s.%s = $%d", col.column, len(args)))
	}
	return args
}

func (r *ObservationRepository) scalarInt(ctx context.Context, name, base string, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	var builder strings.Builder
	builder.WriteString(base)
	args := writeConditions(&builder, nil, scope, filter)

	var out int
	if err := r.db.GetContext(ctx, &out, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("query %s: %w", name, err)
	}
	return out, nil
}

func (r *ObservationRepository) scalarFloat(ctx context.Context, name, base string, scope models.ScopePredicate, filter models.MetricFilter) (float64, error) {
	var builder strings.Builder
	builder.WriteString(base)
	args := writeConditions(&builder, nil, scope, filter)

	var out float64
	if err := r.db.GetContext(ctx, &out, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("query %s: %w", name, err)
	}
	return out, nil
}

// CountSessions counts sessions in scope.
func (r *ObservationRepository) CountSessions(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	return r.scalarInt(ctx, "session count", "SELECT COUNT(*) FROM observation_sessions s WHERE 1=1", scope, filter)
}

// CountCompletedSessions counts completed sessions in scope.
func (r *ObservationRepository) CountCompletedSessions(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	return r.scalarInt(ctx, "completed session count",
		"SELECT COUNT(*) FROM observation_sessions s WHERE s.status = '"+string(models.SessionStatusCompleted)+"'", scope, filter)
}

// AverageIndicatorScore averages every indicator response in scope.
func (r *ObservationRepository) AverageIndicatorScore(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (float64, error) {
	return r.scalarFloat(ctx, "average indicator score",
		"SELECT COALESCE(AVG(r.score), 0) FROM indicator_responses r JOIN observation_sessions s ON s.id = r.session_id WHERE 1=1", scope, filter)
}

// CountImprovementPlans counts plans raised from sessions in scope.
func (r *ObservationRepository) CountImprovementPlans(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	return r.scalarInt(ctx, "improvement plan count",
		"SELECT COUNT(*) FROM improvement_plans p JOIN observation_sessions s ON s.id = p.session_id WHERE 1=1", scope, filter)
}

// CountActiveUsers counts distinct observers with sessions in scope.
func (r *ObservationRepository) CountActiveUsers(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	return r.scalarInt(ctx, "active user count", "SELECT COUNT(DISTINCT s.observer_id) FROM observation_sessions s WHERE 1=1", scope, filter)
}

// AverageSessionDuration averages timed sessions in minutes.
func (r *ObservationRepository) AverageSessionDuration(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (float64, error) {
	return r.scalarFloat(ctx, "average session duration",
		`SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 60), 0) FROM observation_sessions s
        WHERE s.start_time IS NOT NULL AND s.end_time IS NOT NULL AND s.end_time > s.start_time`, scope, filter)
}

// IndicatorPerformance returns the average score of every indicator in scope, best first.
func (r *ObservationRepository) IndicatorPerformance(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.IndicatorPerformance, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT i.id AS indicator_id, i.name AS indicator_name, COALESCE(i.name_km, '') AS indicator_name_km,
        AVG(r.score) AS average_score, COUNT(*) AS response_count
        FROM indicator_responses r
        JOIN indicators i ON i.id = r.indicator_id
        JOIN observation_sessions s ON s.id = r.session_id
        WHERE 1=1`)
	args := writeConditions(&builder, nil, scope, filter)
	builder.WriteString(" GROUP BY i.id, i.name, i.name_km ORDER BY average_score DESC, i.id")

	var rows []models.IndicatorPerformance
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query indicator performance: %w", err)
	}
	return rows, nil
}

// EntityAggregates groups sessions in scope by the owning entity at level.
func (r *ObservationRepository) EntityAggregates(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, level models.HierarchyLevel) ([]models.EntityAggregate, error) {
	col, ok := levelColumns[level]
	if !ok {
		return nil, fmt.Errorf("unknown hierarchy level %q", level)
	}

	var builder strings.Builder
	builder.WriteString("WITH facts AS (")
	builder.WriteString(sessionFactSelect)
	builder.WriteString(fmt.Sprintf(", s.%s AS entity_id FROM observation_sessions s WHERE 1=1", col.column))
	args := writeConditions(&builder, nil, scope, filter)
	builder.WriteString(fmt.Sprintf(`)
        SELECT f.entity_id, COALESCE(e.name, f.entity_id) AS entity_name,
        COUNT(*) AS total_sessions,
        COUNT(*) FILTER (WHERE f.status = '%s') AS completed_sessions,
        COALESCE(SUM(f.score_sum), 0) AS score_sum,
        COALESCE(SUM(f.response_count), 0) AS response_count,
        COALESCE(SUM(f.plan_count), 0) AS plan_count
        FROM facts f
        LEFT JOIN %s e ON e.id = f.entity_id
        WHERE f.entity_id IS NOT NULL
        GROUP BY f.entity_id, e.name
        ORDER BY f.entity_id`, models.SessionStatusCompleted, col.table))

	var rows []models.EntityAggregate
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query %s aggregates: %w", level, err)
	}
	return rows, nil
}

// SubjectAggregates groups sessions in scope by subject.
func (r *ObservationRepository) SubjectAggregates(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SubjectAggregate, error) {
	var builder strings.Builder
	builder.WriteString("WITH facts AS (")
	builder.WriteString(sessionFactSelect)
	builder.WriteString(", s.subject FROM observation_sessions s WHERE 1=1")
	args := writeConditions(&builder, nil, scope, filter)
	builder.WriteString(fmt.Sprintf(`)
        SELECT f.subject, COUNT(*) AS total_sessions,
        COUNT(*) FILTER (WHERE f.status = '%s') AS completed_sessions,
        COALESCE(SUM(f.score_sum), 0) AS score_sum,
        COALESCE(SUM(f.response_count), 0) AS response_count
        FROM facts f
        GROUP BY f.subject
        ORDER BY f.subject`, models.SessionStatusCompleted))

	var rows []models.SubjectAggregate
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query subject aggregates: %w", err)
	}
	return rows, nil
}

// SessionFacts lists per-session aggregates in scope ordered by observation date.
func (r *ObservationRepository) SessionFacts(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SessionFact, error) {
	var builder strings.Builder
	builder.WriteString(sessionFactSelect)
	builder.WriteString(" FROM observation_sessions s WHERE 1=1")
	args := writeConditions(&builder, nil, scope, filter)
	builder.WriteString(" ORDER BY s.date_observed, s.id")

	var rows []models.SessionFact
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query session facts: %w", err)
	}
	return rows, nil
}

// EntityNames resolves display names for entity ids at level. Unknown ids are absent from the map.
func (r *ObservationRepository) EntityNames(ctx context.Context, level models.HierarchyLevel, ids []string) (map[string]string, error) {
	col, ok := levelColumns[level]
	if !ok {
		return nil, fmt.Errorf("unknown hierarchy level %q", level)
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	query := fmt.Sprintf("SELECT id, name FROM %s WHERE id = ANY($1)", col.table)
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("query %s names: %w", level, err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}
