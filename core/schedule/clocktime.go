package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ClockTime is a wall-clock time of day in the school's time zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses the "H:MM" strings of the schedule tables.
//
// Schedule tables are written in 12-hour style without AM/PM markers, so bare hours are
// disambiguated with the school day: 1 to 7 are afternoon hours (1:28 is 13:28), 8 to 12 are
// read as written (12 is noon). 0 and 13 to 23 are already unambiguous.
// An explicit "am"/"pm" suffix takes precedence over that rule.
func ParseClockTime(s string) (ClockTime, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	var isAM, isPM bool
	switch {
	case strings.HasSuffix(str, "pm"):
		isPM = true
		str = strings.TrimSpace(strings.TrimSuffix(str, "pm"))
	case strings.HasSuffix(str, "am"):
		isAM = true
		str = strings.TrimSpace(strings.TrimSuffix(str, "am"))
	}

	parts := strings.Split(str, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || parts[0] == "" || len(parts[0]) > 2 {
		return ClockTime{}, errors.Wrapf(ErrInvalidClockTime, "%q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, errors.Wrapf(ErrInvalidClockTime, "%q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || hour < 0 || hour > 23 {
		return ClockTime{}, errors.Wrapf(ErrInvalidClockTime, "%q", s)
	}

	switch {
	case isPM:
		if hour > 12 || hour == 0 {
			return ClockTime{}, errors.Wrapf(ErrInvalidClockTime, "%q", s)
		}
		if hour < 12 {
			hour += 12
		}
	case isAM:
		if hour > 12 || hour == 0 {
			return ClockTime{}, errors.Wrapf(ErrInvalidClockTime, "%q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case hour >= 1 && hour <= 7:
		hour += 12
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// MustParseClockTime is like ParseClockTime but panics on error. Only for static tables & tests.
func MustParseClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// On anchors ct to the calendar day of `day`, in loc.
func (ct ClockTime) On(day time.Time, loc *time.Location) time.Time {
	day = day.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(), ct.Hour, ct.Minute, 0, 0, loc)
}

// Minutes since midnight.
func (ct ClockTime) Minutes() int {
	return ct.Hour*60 + ct.Minute
}

func (ct ClockTime) Before(other ClockTime) bool {
	return ct.Minutes() < other.Minutes()
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute)
}
