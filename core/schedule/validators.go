package schedule

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/bellplus/core"
)

var (
	clockTimeTag  = "clocktime"
	clockTimeText = "must be a time of day like 8:30 or 1:25"

	assemblyLetterTag  = "assembly_letter"
	assemblyLetterText = "must be one of the assembly letters A to H"

	periodOrderTag  = "periodorder"
	periodOrderText = "periods must be sorted by start time and must not overlap"

	periodBoundsTag  = "periodbounds"
	periodBoundsText = "period cannot end before it starts"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(clockTimeTag, clockTimeValidation)
	core.RegisterCustomTranslation(clockTimeTag, clockTimeText)

	_ = core.Validate.RegisterValidation(assemblyLetterTag, assemblyLetterValidation)
	core.RegisterCustomTranslation(assemblyLetterTag, assemblyLetterText)

	core.Validate.RegisterStructValidation(scheduleStructValidation, Schedule{})
	core.RegisterCustomTranslation(periodOrderTag, periodOrderText)
	core.RegisterCustomTranslation(periodBoundsTag, periodBoundsText)
}

// Validate checks that s can be resolved: names set, parsable times, sorted non-overlapping periods.
func (s Schedule) Validate() error {
	return core.FieldErrors(core.Validate.Struct(s))
}

// Custom Validators

func clockTimeValidation(fl validator.FieldLevel) bool {
	_, err := ParseClockTime(fl.Field().String())
	return err == nil
}

func assemblyLetterValidation(fl validator.FieldLevel) bool {
	return IsAssemblyLetter(fl.Field().String())
}

// scheduleStructValidation checks the ordering of the periods of a Schedule.
// Unparsable times are left to the clocktime tag.
func scheduleStructValidation(sl validator.StructLevel) {
	sched, ok := sl.Current().Interface().(Schedule)
	if !ok {
		return
	}
	var prevEnd *ClockTime
	for i, p := range sched.Periods {
		start, err := ParseClockTime(p.StartTime)
		if err != nil {
			return
		}
		end, err := ParseClockTime(p.EndTime)
		if err != nil {
			return
		}
		field := fmt.Sprintf("periods[%d]", i)
		if end.Before(start) {
			sl.ReportError(p.EndTime, field+".end_time", "EndTime", periodBoundsTag, "")
		}
		if prevEnd != nil && start.Before(*prevEnd) {
			sl.ReportError(p.StartTime, field+".start_time", "StartTime", periodOrderTag, "")
		}
		prevEnd = &end
	}
}
