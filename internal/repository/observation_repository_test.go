package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

func newObservationRepoMock(t *testing.T) (*ObservationRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewObservationRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestWriteScopeRendersEveryPredicate(t *testing.T) {
	cases := []struct {
		name  string
		scope models.ScopePredicate
		sql   string
		args  int
	}{
		{name: "unrestricted", scope: models.UnrestrictedScope(), sql: "", args: 0},
		{name: "subtree", scope: models.SubtreeScope(models.LevelCluster, "c-1"), sql: " AND s.cluster_id = $1", args: 1},
		{name: "observer", scope: models.ObserverScope("u-1"), sql: " AND s.observer_id = $1", args: 1},
		{name: "zero value", scope: models.ScopePredicate{}, sql: " AND FALSE", args: 0},
		{name: "unknown level", scope: models.SubtreeScope("galaxy", "g-1"), sql: " AND FALSE", args: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			args := writeScope(&b, nil, tc.scope)
			assert.Equal(t, tc.sql, b.String())
			assert.Len(t, args, tc.args)
		})
	}
}

func TestWriteConditionsPlacesScopeFirst(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := models.MetricFilter{DateFrom: &from, Subjects: []string{"math"}}.WithEntity(models.LevelSchool, "s-9")

	var b strings.Builder
	args := writeConditions(&b, nil, models.SubtreeScope(models.LevelProvince, "p-1"), filter)

	assert.Equal(t, " AND s.province_id = $1 AND s.date_observed >= $2 AND s.subject = ANY($3) AND s.school_id = $4", b.String())
	require.Len(t, args, 4)
	assert.Equal(t, "p-1", args[0])
	assert.Equal(t, "s-9", args[3])
}

func TestCountSessionsAppliesScope(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM observation_sessions s WHERE 1=1 AND s.school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	count, err := repo.CountSessions(context.Background(), models.SubtreeScope(models.LevelSchool, "school-1"), models.MetricFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCompletedSessionsFiltersStatus(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.status = 'COMPLETED' AND s.observer_id = $1")).
		WithArgs("obs-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	count, err := repo.CountCompletedSessions(context.Background(), models.ObserverScope("obs-1"), models.MetricFilter{})
	require.NoError(t, err)
	assert.Equal(t, 8, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageIndicatorScoreWrapsErrors(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(r.score), 0) FROM indicator_responses r")).
		WillReturnError(assert.AnError)

	_, err := repo.AverageIndicatorScore(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "average indicator score")
}

func TestIndicatorPerformanceScansRows(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"indicator_id", "indicator_name", "indicator_name_km", "average_score", "response_count"}).
		AddRow("ind-1", "Lesson planning", "", 2.8, 12).
		AddRow("ind-2", "Questioning", "", 1.6, 9)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY i.id, i.name, i.name_km ORDER BY average_score DESC")).
		WillReturnRows(rows)

	result, err := repo.IndicatorPerformance(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "ind-1", result[0].IndicatorID)
	assert.InDelta(t, 1.6, result[1].AverageScore, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityAggregatesUsesLevelColumn(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"entity_id", "entity_name", "total_sessions", "completed_sessions", "score_sum", "response_count", "plan_count"}).
		AddRow("cl-1", "North Cluster", 4, 3, 20.0, 8, 1)
	mock.ExpectQuery(`s\.cluster_id AS entity_id FROM observation_sessions s WHERE 1=1 AND s\.zone_id = \$1.*LEFT JOIN clusters e`).
		WithArgs("z-1").
		WillReturnRows(rows)

	result, err := repo.EntityAggregates(context.Background(), models.SubtreeScope(models.LevelZone, "z-1"), models.MetricFilter{}, models.LevelCluster)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "North Cluster", result[0].EntityName)
	assert.Equal(t, 8, result[0].ResponseCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityAggregatesRejectsUnknownLevel(t *testing.T) {
	repo, _, cleanup := newObservationRepoMock(t)
	defer cleanup()

	_, err := repo.EntityAggregates(context.Background(), models.UnrestrictedScope(), models.MetricFilter{}, "blimp")
	require.Error(t, err)
}

func TestSessionFactsOrdersByDate(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	observed := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"session_id", "date_observed", "status", "score_sum", "response_count", "plan_count", "duration_minutes"}).
		AddRow("s-1", observed, "COMPLETED", 7.5, 3, 1, 45.0)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.date_observed, s.id")).
		WillReturnRows(rows)

	facts, err := repo.SessionFacts(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, models.SessionStatusCompleted, facts[0].Status)
	assert.Equal(t, observed, facts[0].DateObserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityNamesSkipsEmptyLookup(t *testing.T) {
	repo, mock, cleanup := newObservationRepoMock(t)
	defer cleanup()

	names, err := repo.EntityNames(context.Background(), models.LevelSchool, nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM schools WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("s-1", "Riverside"))

	names, err = repo.EntityNames(context.Background(), models.LevelSchool, []string{"s-1", "s-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s-1": "Riverside"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}
