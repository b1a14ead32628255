package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Labels reported by the resolver when no real period applies.
const (
	LabelFree           = "Free"
	LabelWeekend        = "Weekend"
	LabelPassing        = "Passing"
	LabelWarningBell    = "Warning Bell"
	LabelAssembly       = "Assembly"
	LabelNextSchoolDay  = "Next School Day"
	LabelNoSchedule     = "No schedule available"
	LabelError          = "Error"
	LabelUndetermined   = "Unable to determine"
	AssemblyScheduleKey = "assembly"
)

var (
	// errors
	ErrNotFound         = errors.New("schedule not found")
	ErrInvalidClockTime = errors.New("invalid clock time")
)

type (
	Period struct {
		Name           string `json:"name" yaml:"name" validate:"required"`
		StartTime      string `json:"start_time" yaml:"start_time" validate:"required,clocktime"`
		EndTime        string `json:"end_time" yaml:"end_time" validate:"required,clocktime"`
		Duration       string `json:"duration,omitempty" yaml:"duration,omitempty"`
		IsAnnouncement bool   `json:"is_announcement,omitempty" yaml:"is_announcement,omitempty"`
	}

	Schedule struct {
		Name        string   `json:"name" yaml:"name" validate:"required"`
		DisplayName string   `json:"display_name" yaml:"display_name" validate:"required"`
		Periods     []Period `json:"periods" yaml:"periods" validate:"dive"`
	}

	// Result is the state of a schedule at one instant. It is derived, never stored.
	Result struct {
		Schedule        string    `json:"schedule"`
		ScheduleName    string    `json:"schedule_name"`
		CurrentPeriod   string    `json:"current_period"`
		NextPeriod      string    `json:"next_period"`
		RemainingMillis int64     `json:"remaining_millis"`
		TotalMillis     int64     `json:"total_millis"`
		Progress        float64   `json:"progress"`
		Outside         bool      `json:"outside_active_hours"`
		Indeterminate   bool      `json:"indeterminate,omitempty"`
		At              time.Time `json:"at"`
		EndsAt          time.Time `json:"ends_at"`
	}

	// Repository is a registry of named schedules.
	Repository interface {
		QueryAll(ctx context.Context) ([]Schedule, error)
		// Get returns ErrNotFound if no schedule has this name.
		Get(ctx context.Context, name string) (Schedule, error)
	}

	// Observer is notified of every resolution (eg. metrics).
	Observer interface {
		ObserveResolution(res Result)
	}
)

// IsMarker reports whether p is a zero-duration marker (eg. the warning bell).
func (p Period) IsMarker() bool {
	start, err := ParseClockTime(p.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseClockTime(p.EndTime)
	return err == nil && start == end
}

// IsWarningBell reports whether p is a warning bell that lasts until the next period starts.
func (p Period) IsWarningBell() bool {
	return p.Name == LabelWarningBell && !p.IsMarker()
}

// IsCatchAll reports whether p is the after-hours period that closes the day.
func (p Period) IsCatchAll() bool {
	return p.Name == LabelFree || p.Name == LabelWeekend
}

func (s Schedule) IsEmpty() bool {
	return len(s.Periods) == 0
}

// Start returns the first period start, ok is false when the schedule is empty or malformed.
func (s Schedule) Start() (ClockTime, bool) {
	if s.IsEmpty() {
		return ClockTime{}, false
	}
	ct, err := ParseClockTime(s.Periods[0].StartTime)
	if err != nil {
		return ClockTime{}, false
	}
	return ct, true
}

// IsSchoolDay is false for schedules made of a single catch-all period (weekends, holidays).
func (s Schedule) IsSchoolDay() bool {
	for _, p := range s.Periods {
		if !p.IsCatchAll() && !p.IsMarker() {
			return true
		}
	}
	return false
}

func (r Result) Remaining() time.Duration {
	return time.Duration(r.RemainingMillis) * time.Millisecond
}

func (r Result) Total() time.Duration {
	return time.Duration(r.TotalMillis) * time.Millisecond
}

// NotFoundError is returned when a schedule name is unknown, with the closest known name if any.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (err *NotFoundError) Error() string {
	msg := "schedule \"" + err.Name + "\" not found"
	if err.Suggestion != "" {
		msg += "; did you mean \"" + err.Suggestion + "\"?"
	}
	return msg
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
