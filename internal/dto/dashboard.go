package dto

import (
	"time"

	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

// DashboardQuery selects the dashboard window.
type DashboardQuery struct {
	TimePeriod string `form:"timePeriod"`
	From       string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// Dates parses the custom range bounds when present.
func (q DashboardQuery) Dates() (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if q.From != "" {
		t, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		from = &t
	}
	if q.To != "" {
		t, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}
