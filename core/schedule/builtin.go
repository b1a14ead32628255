package schedule

import "time"

// WeekdayKeys maps days of the week to the key of their regular schedule.
var WeekdayKeys = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// Builtin returns the school's bell schedules. Each call returns a fresh copy.
func Builtin() []Schedule {
	scheds := make([]Schedule, len(builtin))
	for i, s := range builtin {
		s.Periods = append([]Period(nil), s.Periods...)
		scheds[i] = s
	}
	return scheds
}

var builtin = []Schedule{
	{
		Name:        "monday",
		DisplayName: "Monday",
		Periods: []Period{
			{Name: "Warning Bell", StartTime: "8:25", EndTime: "8:25"},
			{Name: "Period 1", StartTime: "8:30", EndTime: "9:16", Duration: "(46)"},
			{Name: "Period 2", StartTime: "9:19", EndTime: "10:05", Duration: "(46)"},
			{Name: "Period 3", StartTime: "10:08", EndTime: "10:57", Duration: "(49)", IsAnnouncement: true},
			{Name: "Brunch", StartTime: "10:57", EndTime: "11:11", Duration: "(14)"},
			{Name: "Period 4", StartTime: "11:14", EndTime: "12:00", Duration: "(46)"},
			{Name: "Period 5", StartTime: "12:03", EndTime: "12:49", Duration: "(46)"},
			{Name: "Lunch", StartTime: "12:49", EndTime: "1:25", Duration: "(36)"},
			{Name: "Period 6", StartTime: "1:28", EndTime: "2:14", Duration: "(46)"},
			{Name: "Period 7", StartTime: "2:17", EndTime: "3:03", Duration: "(46)"},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
	{
		Name:        "tuesday",
		DisplayName: "Tuesday",
		Periods: []Period{
			{Name: "Warning Bell", StartTime: "8:25", EndTime: "8:25"},
			{Name: "Period 1", StartTime: "8:30", EndTime: "9:12", Duration: "(42)"},
			{Name: "Period 2", StartTime: "9:15", EndTime: "9:57", Duration: "(42)"},
			{Name: "Period 3", StartTime: "10:00", EndTime: "10:42", Duration: "(42)"},
			{Name: "Brunch", StartTime: "10:42", EndTime: "10:56", Duration: "(14)"},
			{Name: "Tutorial", StartTime: "10:59", EndTime: "11:27", Duration: "(28)"},
			{Name: "Period 4", StartTime: "11:30", EndTime: "12:12", Duration: "(42)"},
			{Name: "Period 5", StartTime: "12:15", EndTime: "12:57", Duration: "(42)"},
			{Name: "Lunch", StartTime: "12:57", EndTime: "1:33", Duration: "(36)"},
			{Name: "Period 6", StartTime: "1:36", EndTime: "2:18", Duration: "(42)"},
			{Name: "Period 7", StartTime: "2:21", EndTime: "3:03", Duration: "(42)"},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
	{
		Name:        "wednesday",
		DisplayName: "Wednesday Block",
		Periods: []Period{
			{Name: "Warning Bell", StartTime: "9:12", EndTime: "9:12"},
			{Name: "Period 2", StartTime: "9:17", EndTime: "10:39", Duration: "(82)"},
			{Name: "Brunch", StartTime: "10:39", EndTime: "10:53", Duration: "(14)"},
			{Name: "Period 4", StartTime: "10:56", EndTime: "12:18", Duration: "(82)"},
			{Name: "Lunch", StartTime: "12:18", EndTime: "12:54", Duration: "(36)"},
			{Name: "Period 6", StartTime: "12:57", EndTime: "2:19", Duration: "(82)"},
			{Name: "Tutorial", StartTime: "2:22", EndTime: "3:03", Duration: "(41)", IsAnnouncement: true},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
	{
		Name:        "thursday",
		DisplayName: "Thursday Block",
		Periods: []Period{
			{Name: "Warning Bell", StartTime: "8:25", EndTime: "8:25"},
			{Name: "Period 1", StartTime: "8:30", EndTime: "9:52", Duration: "(82)"},
			{Name: "Break", StartTime: "9:52", EndTime: "9:58", Duration: "(6)"},
			{Name: "Period 3", StartTime: "10:01", EndTime: "11:23", Duration: "(82)"},
			{Name: "Brunch", StartTime: "11:23", EndTime: "11:37", Duration: "(14)"},
			{Name: "Period 5", StartTime: "11:40", EndTime: "1:02", Duration: "(82)"},
			{Name: "Lunch", StartTime: "1:02", EndTime: "1:38", Duration: "(36)"},
			{Name: "Period 7", StartTime: "1:41", EndTime: "3:03", Duration: "(82)"},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
	{
		Name:        "friday",
		DisplayName: "Friday",
		Periods: []Period{
			{Name: "Warning Bell", StartTime: "8:25", EndTime: "8:25"},
			{Name: "Period 1", StartTime: "8:30", EndTime: "9:12", Duration: "(42)"},
			{Name: "Period 2", StartTime: "9:15", EndTime: "9:57", Duration: "(42)"},
			{Name: "Period 3", StartTime: "10:00", EndTime: "10:42", Duration: "(42)"},
			{Name: "Brunch", StartTime: "10:42", EndTime: "10:56", Duration: "(14)"},
			{Name: "Advisory", StartTime: "10:59", EndTime: "11:27", Duration: "(28)"},
			{Name: "Period 4", StartTime: "11:30", EndTime: "12:12", Duration: "(42)"},
			{Name: "Period 5", StartTime: "12:15", EndTime: "12:57", Duration: "(42)"},
			{Name: "Lunch", StartTime: "12:57", EndTime: "1:33", Duration: "(36)"},
			{Name: "Period 6", StartTime: "1:36", EndTime: "2:18", Duration: "(42)"},
			{Name: "Period 7", StartTime: "2:21", EndTime: "3:03", Duration: "(42)"},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
	{
		Name:        "saturday",
		DisplayName: "Saturday",
		Periods: []Period{
			{Name: "Weekend", StartTime: "0:00", EndTime: "23:59", Duration: "(24h)"},
		},
	},
	{
		Name:        "sunday",
		DisplayName: "Sunday",
		Periods: []Period{
			{Name: "Weekend", StartTime: "0:00", EndTime: "23:59", Duration: "(24h)"},
		},
	},
	{
		Name:        "minimumDay",
		DisplayName: "Minimum Day",
		Periods: []Period{
			{Name: "Period 1", StartTime: "8:30", EndTime: "9:00"},
			{Name: "Period 2", StartTime: "9:03", EndTime: "9:33"},
			{Name: "Period 3", StartTime: "9:36", EndTime: "10:06"},
			{Name: "Period 4", StartTime: "10:09", EndTime: "10:39"},
			{Name: "Brunch", StartTime: "10:39", EndTime: "10:51"},
			{Name: "Period 5", StartTime: "10:54", EndTime: "11:24"},
			{Name: "Period 6", StartTime: "11:27", EndTime: "11:57"},
			{Name: "Period 7", StartTime: "12:00", EndTime: "12:30"},
			{Name: "Free", StartTime: "12:30", EndTime: "23:59"},
		},
	},
	{
		Name:        "assembly",
		DisplayName: "Assembly",
		Periods: []Period{
			{Name: "A", StartTime: "8:30", EndTime: "9:10"},
			{Name: "B", StartTime: "9:13", EndTime: "9:53"},
			{Name: "C", StartTime: "9:56", EndTime: "10:37"},
			{Name: "Brunch", StartTime: "10:37", EndTime: "10:51"},
			{Name: "D", StartTime: "10:54", EndTime: "11:34"},
			{Name: "E", StartTime: "11:37", EndTime: "12:17"},
			{Name: "Lunch", StartTime: "12:17", EndTime: "12:54"},
			{Name: "F", StartTime: "12:57", EndTime: "1:37"},
			{Name: "G", StartTime: "1:40", EndTime: "2:20"},
			{Name: "H", StartTime: "2:23", EndTime: "3:03"},
			{Name: "Free", StartTime: "3:03", EndTime: "23:59"},
		},
	},
}
