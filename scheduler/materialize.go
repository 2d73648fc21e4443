package scheduler

import (
	"sort"
	"time"

	"clinic-roster/constraints"
	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// materialize converts a solved assignment into schedule rows and the
// provider and call summaries.
func materialize(f *constraints.Fabric, res cpmodel.Result, cfg models.Config) *Result {
	result := &Result{}
	result.Schedule = scheduleRows(f, res)
	result.WeekKeys, result.ProviderSummary = providerSummaries(f, res, cfg)
	if cfg.ClinicRules.HasCall() {
		result.CallWeeks, result.CallSummary = callSummaries(f, res)
	}
	return result
}

func scheduleRows(f *constraints.Fabric, res cpmodel.Result) []models.ScheduleRow {
	var rows []models.ScheduleRow
	for _, d := range f.Calendar().Dates() {
		for _, s := range f.Calendar().Sessions(d) {
			var assigned []string
			for _, name := range f.ProviderNames() {
				if v, ok := f.Var(name, d, s); ok && res.BoolValue(v) {
					assigned = append(assigned, name)
				}
			}
			rows = append(rows, models.ScheduleRow{
				Date:      d,
				DayOfWeek: d.WeekdayName(),
				Session:   s,
				Providers: assigned,
				Count:     len(assigned),
			})
		}
	}
	return rows
}

// providerSummaries aggregates clinic work per ISO week. Weeks whose only
// in-range day is a Sunday are dropped; they are an artifact of the range
// boundaries, not a worked week. Providers without a weekly clinic quota
// are left out.
func providerSummaries(
	f *constraints.Fabric,
	res cpmodel.Result,
	cfg models.Config,
) ([]models.WeekKey, []models.ProviderSummary) {
	clinicDates := f.Calendar().ClinicDates()

	weekDates := make(map[models.WeekKey][]models.Date)
	for _, d := range clinicDates {
		key := d.ISOWeekKey()
		weekDates[key] = append(weekDates[key], d)
	}
	var weekKeys []models.WeekKey
	for key, dates := range weekDates {
		if len(dates) == 1 && dates[0].Weekday() == time.Sunday {
			continue
		}
		weekKeys = append(weekKeys, key)
	}
	sort.Slice(weekKeys, func(i, j int) bool { return weekKeys[i].Less(weekKeys[j]) })

	adminDay := cfg.ClinicRules.AdminMorningDay

	var summaries []models.ProviderSummary
	for _, name := range f.ProviderNames() {
		if cfg.Providers[name].MaxClinicsPerWeek == 0 {
			continue
		}
		summary := models.ProviderSummary{
			Provider: name,
			Weeks:    make(map[models.WeekKey]models.WeekCell, len(weekKeys)),
		}
		for _, key := range weekKeys {
			cell := models.WeekCell{}
			streak := 0
			for _, d := range weekDates[key] {
				for _, s := range []models.Session{models.Morning, models.Afternoon} {
					if s == models.Afternoon && d.WeekdayName() == adminDay {
						// The admin morning just ended; the streak restarts
						// for the afternoon.
						streak = 0
					}
					v, ok := f.Var(name, d, s)
					if !ok {
						continue
					}
					if res.BoolValue(v) {
						cell.Total++
						streak++
						if streak > cell.Consecutive {
							cell.Consecutive = streak
						}
						if s == models.Morning {
							summary.TotalAM++
						} else {
							summary.TotalPM++
						}
					} else {
						streak = 0
					}
				}
			}
			summary.TotalSessions += cell.Total
			summary.Weeks[key] = cell

			// A week counts once when its Monday or its Friday carries no
			// clinic work, missing boundary days included.
			mondayWorked, fridayWorked := false, false
			for _, d := range weekDates[key] {
				switch d.Weekday() {
				case time.Monday:
					mondayWorked = mondayWorked || worksClinic(f, res, name, d)
				case time.Friday:
					fridayWorked = fridayWorked || worksClinic(f, res, name, d)
				}
			}
			if !mondayWorked || !fridayWorked {
				summary.MondayOrFridayOff++
			}
		}
		summaries = append(summaries, summary)
	}
	return weekKeys, summaries
}

func worksClinic(f *constraints.Fabric, res cpmodel.Result, provider string, d models.Date) bool {
	for _, v := range f.ClinicVars(provider, d) {
		if res.BoolValue(v) {
			return true
		}
	}
	return false
}

// callSummaries aggregates call shifts per Sunday-starting week.
func callSummaries(f *constraints.Fabric, res cpmodel.Result) ([]models.Date, []models.CallSummary) {
	callDates := f.Calendar().CallDates()

	seen := make(map[models.Date]bool)
	var weeks []models.Date
	for _, d := range callDates {
		ws := d.WeekStart(time.Sunday)
		if !seen[ws] {
			seen[ws] = true
			weeks = append(weeks, ws)
		}
	}
	models.SortDates(weeks)

	var summaries []models.CallSummary
	for _, name := range f.ProviderNames() {
		if f.Providers()[name].MaxCallsPerMonth == 0 {
			continue
		}
		summary := models.CallSummary{
			Provider: name,
			Weeks:    make(map[models.Date]int, len(weeks)),
		}
		for _, d := range callDates {
			v, ok := f.Var(name, d, models.Call)
			if !ok || !res.BoolValue(v) {
				continue
			}
			summary.Weeks[d.WeekStart(time.Sunday)]++
			summary.Total++
		}
		summaries = append(summaries, summary)
	}
	return weeks, summaries
}
