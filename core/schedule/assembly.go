package schedule

// AssemblyLetters are the period letters of the assembly schedule.
var AssemblyLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// regular period each assembly letter stands for. There is no Period 8: H is Period 7 too.
var assemblyPeriods = map[string]string{
	"A": "Period 1",
	"B": "Period 2",
	"C": "Period 3",
	"D": "Period 4",
	"E": "Period 5",
	"F": "Period 6",
	"G": "Period 7",
	"H": "Period 7",
}

// IsAssemblyLetter reports whether s is one of AssemblyLetters.
func IsAssemblyLetter(s string) bool {
	_, ok := assemblyPeriods[s]
	return ok
}

// AssemblyPeriodName maps a period of the assembly schedule to the name students know it by:
// the selected letter is the assembly itself, any other letter its regular period.
// Names that are not letters (Brunch, Lunch, Free..) are returned as is.
func AssemblyPeriodName(selected, periodLetter string) string {
	name, ok := assemblyPeriods[periodLetter]
	if !ok {
		return periodLetter
	}
	if periodLetter == selected {
		return LabelAssembly
	}
	return name
}

// labeler returns the function naming the periods of sched for display.
func labeler(sched Schedule, assemblyLetter string) func(string) string {
	if sched.Name != AssemblyScheduleKey {
		return func(name string) string { return name }
	}
	return func(name string) string { return AssemblyPeriodName(assemblyLetter, name) }
}

// DisplayPeriods returns a copy of sched's periods named for display.
func DisplayPeriods(sched Schedule, assemblyLetter string) []Period {
	label := labeler(sched, assemblyLetter)
	periods := make([]Period, len(sched.Periods))
	for i, p := range sched.Periods {
		p.Name = label(p.Name)
		periods[i] = p
	}
	return periods
}
