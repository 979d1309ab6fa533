package dto

import (
	"time"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// FilterQuery is the shared analytics filter, bound from the query string or a JSON body.
type FilterQuery struct {
	DateFrom    string   `form:"dateFrom" json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string   `form:"dateTo" json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	Grades      []string `form:"grade" json:"grades" validate:"omitempty,dive,required"`
	Subjects    []string `form:"subject" json:"subjects" validate:"omitempty,dive,required"`
	Statuses    []string `form:"status" json:"statuses" validate:"omitempty,dive,oneof=DRAFT IN_PROGRESS COMPLETED CANCELLED"`
	ObserverIDs []string `form:"observerId" json:"observerIds" validate:"omitempty,dive,required"`
}

// ToFilter converts the query into a metric filter. DateTo includes the whole day.
func (q FilterQuery) ToFilter() (models.MetricFilter, error) {
	filter := models.MetricFilter{
		Grades:      q.Grades,
		Subjects:    q.Subjects,
		Statuses:    q.Statuses,
		ObserverIDs: q.ObserverIDs,
	}
	if q.DateFrom != "" {
		from, err := time.Parse(dateLayout, q.DateFrom)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "dateFrom must be YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(dateLayout, q.DateTo)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "dateTo must be YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.DateTo = &end
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, appErrors.Clone(appErrors.ErrValidation, "dateFrom must not be after dateTo")
	}
	return filter, nil
}

// GeographicQuery selects the aggregation level.
type GeographicQuery struct {
	FilterQuery
	EntityType string `form:"entityType" validate:"required"`
}

// TimeSeriesQuery selects the bucketing unit.
type TimeSeriesQuery struct {
	FilterQuery
	Granularity string `form:"granularity"`
}

// TrendQuery parameterises GET /analytics/trends.
type TrendQuery struct {
	FilterQuery
	Metric      string `form:"metric" validate:"required"`
	Granularity string `form:"granularity"`
	Periods     int    `form:"periods" validate:"omitempty,min=1,max=60"`
	Prediction  bool   `form:"prediction"`
}

// SeasonalQuery parameterises GET /analytics/seasonal.
type SeasonalQuery struct {
	FilterQuery
	Metric string `form:"metric" validate:"required"`
}

// CompareRequest is the POST /analytics/compare payload.
type CompareRequest struct {
	EntityIDs  []string    `json:"entityIds" validate:"required,min=1,max=20,dive,required"`
	EntityType string      `json:"entityType" validate:"required"`
	Metrics    []string    `json:"metrics" validate:"omitempty,dive,required"`
	Filter     FilterQuery `json:"filter"`
}
