package constraints

import (
	"fmt"

	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// AddDayOffQuota gives each eligible provider exactly one fully free day
// per week. A day counts as off only when every session of it, call
// included, is unassigned. Weeks already broken up by leave, an inpatient
// rotation, or (for physicians) a holiday are skipped rather than forced.
//
// A provider's weekday preference narrows the candidate days when it can;
// a week where the preferred day is unavailable falls back to the full
// eligible set. Days on which the provider is busy in a sibling department
// never carry the day off. A day off landing right after a call shift is
// allowed but penalized.
func AddDayOffQuota(
	f *Fabric,
	leaves []models.LeaveRecord,
	days []models.RotationDay,
	sibling *models.SiblingSchedule,
	rules models.ClinicRules,
) []cpmodel.Term {
	weekStart := rules.WeekStartDay()
	holidays := rules.HolidaySet()

	eligible := make(map[string]bool, len(rules.RandomDayOff.EligibleDays))
	for _, day := range rules.RandomDayOff.EligibleDays {
		eligible[day] = true
	}

	// Per provider, the set of week starts that cannot carry a day off.
	leaveWeeks := make(map[string]map[models.Date]bool)
	markWeek := func(provider string, d models.Date) {
		if leaveWeeks[provider] == nil {
			leaveWeeks[provider] = make(map[models.Date]bool)
		}
		leaveWeeks[provider][d.WeekStart(weekStart)] = true
	}
	for _, rec := range leaves {
		markWeek(rec.Provider, rec.Date)
	}
	for _, day := range days {
		markWeek(day.Provider, day.Date)
	}

	holidayWeeks := make(map[models.Date]bool)
	for d := range holidays {
		holidayWeeks[d.WeekStart(weekStart)] = true
	}

	weeks := make(map[models.Date][]models.Date)
	var weekKeys []models.Date
	for _, d := range f.Calendar().Dates() {
		ws := d.WeekStart(weekStart)
		if _, seen := weeks[ws]; !seen {
			weekKeys = append(weekKeys, ws)
		}
		weeks[ws] = append(weeks[ws], d)
	}
	models.SortDates(weekKeys)

	var penalties []cpmodel.Term
	for _, name := range f.ProviderNames() {
		p := f.Providers()[name]
		if !p.WantsRDO() {
			continue
		}
		siblingClinic := sibling.ClinicDates(name)
		siblingCall := sibling.CallDates(name)
		for _, ws := range weekKeys {
			if leaveWeeks[name][ws] {
				continue
			}
			if holidayWeeks[ws] && p.HolidayWeekBlocksRDO() {
				continue
			}

			var candidates []models.Date
			for _, d := range weeks[ws] {
				if !eligible[d.WeekdayName()] {
					continue
				}
				if siblingClinic[d] || siblingCall[d] {
					continue
				}
				candidates = append(candidates, d)
			}
			if len(candidates) == 0 {
				continue
			}
			if p.RDOPreference != "" {
				var preferred []models.Date
				for _, d := range candidates {
					if d.WeekdayName() == p.RDOPreference {
						preferred = append(preferred, d)
					}
				}
				if len(preferred) > 0 {
					candidates = preferred
				}
			}

			var indicators []cpmodel.Var
			for _, d := range candidates {
				ind := f.Model().NewBoolVar(fmt.Sprintf("rdo_%s_%s", name, d))
				f.Model().AddAllZeroIndicator(ind, f.DayVars(name, d))
				indicators = append(indicators, ind)

				prev := d.AddDays(-1)
				if callVar, ok := f.Var(name, prev, models.Call); ok {
					pen := f.Model().NewBoolVar(fmt.Sprintf("rdo_postcall_%s_%s", name, d))
					f.Model().AddConjunctionIndicator(pen, []cpmodel.Var{ind, callVar})
					penalties = append(penalties, cpmodel.Term{Var: pen, Coef: PenaltyWeight})
				} else if siblingCall[prev] {
					penalties = append(penalties, cpmodel.Term{Var: ind, Coef: PenaltyWeight})
				}
			}
			f.Model().AddSumEquals(indicators, 1)
		}
	}
	return penalties
}
