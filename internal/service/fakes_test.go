package service

import (
	"context"
	"sync"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

type fakeObservationSource struct {
	mu sync.Mutex

	sessions       int
	completed      int
	averageScore   float64
	plans          int
	activeUsers    int
	duration       float64
	indicators     []models.IndicatorPerformance
	entities       map[models.HierarchyLevel][]models.EntityAggregate
	entityErr      map[models.HierarchyLevel]error
	subjects       []models.SubjectAggregate
	facts          []models.SessionFact
	factsByEntity  map[string][]models.SessionFact
	names          map[string]string
	err            error
	scopes         []models.ScopePredicate
	factFilters    []models.MetricFilter
	metricsFilters []models.MetricFilter
}

func (f *fakeObservationSource) record(scope models.ScopePredicate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
}

func (f *fakeObservationSource) CountSessions(_ context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error) {
	f.record(scope)
	f.mu.Lock()
	f.metricsFilters = append(f.metricsFilters, filter)
	f.mu.Unlock()
	return f.sessions, f.err
}

func (f *fakeObservationSource) CountCompletedSessions(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) (int, error) {
	f.record(scope)
	return f.completed, f.err
}

func (f *fakeObservationSource) AverageIndicatorScore(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) (float64, error) {
	f.record(scope)
	return f.averageScore, f.err
}

func (f *fakeObservationSource) CountImprovementPlans(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) (int, error) {
	f.record(scope)
	return f.plans, f.err
}

func (f *fakeObservationSource) CountActiveUsers(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) (int, error) {
	f.record(scope)
	return f.activeUsers, f.err
}

func (f *fakeObservationSource) AverageSessionDuration(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) (float64, error) {
	f.record(scope)
	return f.duration, f.err
}

func (f *fakeObservationSource) IndicatorPerformance(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) ([]models.IndicatorPerformance, error) {
	f.record(scope)
	return f.indicators, f.err
}

func (f *fakeObservationSource) EntityAggregates(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter, level models.HierarchyLevel) ([]models.EntityAggregate, error) {
	f.record(scope)
	if err := f.entityErr[level]; err != nil {
		return nil, err
	}
	return f.entities[level], f.err
}

func (f *fakeObservationSource) SubjectAggregates(_ context.Context, scope models.ScopePredicate, _ models.MetricFilter) ([]models.SubjectAggregate, error) {
	f.record(scope)
	return f.subjects, f.err
}

func (f *fakeObservationSource) SessionFacts(_ context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SessionFact, error) {
	f.record(scope)
	f.mu.Lock()
	f.factFilters = append(f.factFilters, filter)
	f.mu.Unlock()
	if filter.Entity != nil && f.factsByEntity != nil {
		return f.factsByEntity[filter.Entity.ID], f.err
	}
	var out []models.SessionFact
	for _, fact := range f.facts {
		if filter.DateFrom != nil && fact.DateObserved.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && fact.DateObserved.After(*filter.DateTo) {
			continue
		}
		out = append(out, fact)
	}
	return out, f.err
}

func (f *fakeObservationSource) EntityNames(_ context.Context, _ models.HierarchyLevel, ids []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, f.err
}

type fakeSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{values: map[string]string{}}
}

func (s *fakeSettingsStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeSettingsStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

func (s *fakeSettingsStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.err
}

func (s *fakeSettingsStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return s.err
}

// monthlyFacts produces one session per value in consecutive months starting at start, with
// the value encoded as the session's single indicator score.
func monthlyFacts(startYear int, startMonth int, values ...float64) []models.SessionFact {
	facts := make([]models.SessionFact, 0, len(values))
	for i, v := range values {
		facts = append(facts, models.SessionFact{
			SessionID:     "s",
			DateObserved:  dateUTC(startYear, startMonth+i, 15),
			Status:        models.SessionStatusCompleted,
			ScoreSum:      v,
			ResponseCount: 1,
		})
	}
	return facts
}
