package models

import "time"

// SessionStatus is the lifecycle state of an observation session.
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "DRAFT"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusCancelled  SessionStatus = "CANCELLED"
)

// ObservationSession is the read projection of the observation_sessions table.
type ObservationSession struct {
	ID           string        `db:"id" json:"id"`
	ZoneID       string        `db:"zone_id" json:"zone_id"`
	ProvinceID   string        `db:"province_id" json:"province_id"`
	DepartmentID string        `db:"department_id" json:"department_id"`
	ClusterID    string        `db:"cluster_id" json:"cluster_id"`
	SchoolID     string        `db:"school_id" json:"school_id"`
	TeacherID    string        `db:"teacher_id" json:"teacher_id"`
	ObserverID   string        `db:"observer_id" json:"observer_id"`
	Subject      string        `db:"subject" json:"subject"`
	Grade        string        `db:"grade" json:"grade"`
	DateObserved time.Time     `db:"date_observed" json:"date_observed"`
	Status       SessionStatus `db:"status" json:"status"`
	StartTime    *time.Time    `db:"start_time" json:"start_time,omitempty"`
	EndTime      *time.Time    `db:"end_time" json:"end_time,omitempty"`
}

// SessionFact is one scoped session with its indicator and plan aggregates, the unit the
// time-series builder buckets.
type SessionFact struct {
	SessionID       string        `db:"session_id"`
	DateObserved    time.Time     `db:"date_observed"`
	Status          SessionStatus `db:"status"`
	ScoreSum        float64       `db:"score_sum"`
	ResponseCount   int           `db:"response_count"`
	PlanCount       int           `db:"plan_count"`
	DurationMinutes float64       `db:"duration_minutes"`
}

// MetricFilter narrows any aggregation. Zero values mean no restriction.
type MetricFilter struct {
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	Grades      []string   `json:"grades,omitempty"`
	Subjects    []string   `json:"subjects,omitempty"`
	Statuses    []string   `json:"statuses,omitempty"`
	ObserverIDs []string   `json:"observer_ids,omitempty"`
	// Entity pins the aggregation to one node, used by comparisons.
	Entity *EntityRef `json:"entity,omitempty"`
}

// WithRange returns a copy of the filter bounded to [from, to].
func (f MetricFilter) WithRange(from, to time.Time) MetricFilter {
	f.DateFrom = &from
	f.DateTo = &to
	return f
}

// WithEntity returns a copy of the filter pinned to one entity.
func (f MetricFilter) WithEntity(level HierarchyLevel, id string) MetricFilter {
	f.Entity = &EntityRef{Level: level, ID: id}
	return f
}
