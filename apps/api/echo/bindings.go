package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
)

var (
	atParam    = "at"
	clockParam = "clock"
)

// timerQuery is the query string of the timer endpoints.
type timerQuery struct {
	schedule.ResolveRequest
	Clock string `query:"clock" json:"clock"`
}

// bindTimerQuery reads ?schedule=&assembly=&at=&clock=. at is RFC3339, for previews.
// The schedule and assembly letter are validated by the service.
func bindTimerQuery(ctx echo.Context, defaultClock string) (timerQuery, error) {
	var q timerQuery
	q.Schedule = ctx.QueryParam("schedule")
	q.AssemblyLetter = ctx.QueryParam("assembly")
	q.Clock = core.CleanString(ctx.QueryParam(clockParam))

	if at := core.CleanString(ctx.QueryParam(atParam)); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return q, core.NewValidationError(nil, core.FieldError{
				Field: atParam,
				Error: "at must be an RFC3339 timestamp like 2024-01-15T08:45:00-08:00",
			})
		}
		q.At = t
	}
	switch q.Clock {
	case "":
		q.Clock = defaultClock
	case "12", "24":
	default:
		return q, core.NewValidationError(nil, core.FieldError{Field: clockParam, Error: "clock must be 12 or 24"})
	}
	return q, nil
}
