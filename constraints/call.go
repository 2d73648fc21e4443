package constraints

import (
	"fmt"
	"time"

	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// callWeekStart groups call dates Sunday through Saturday regardless of the
// department's clinic week, matching how call weekends are staffed.
const callWeekStart = time.Sunday

// AddCallRules assembles the on-call duty rules:
//
//   - every call slot is covered by exactly one provider;
//   - providers with no monthly call quota never take call;
//   - leave blocks call on the leave day and the evening before it;
//   - an inpatient rotation blocks call on a set of day offsets from its
//     start, and a pediatric rotation pins the rotating provider to the
//     weekend call slots inside it;
//   - fracture-clinic providers skip call on their blocked weekday;
//   - a holiday call pairs with its adjacent slot so one provider covers
//     both: the day before for a Monday-to-Thursday holiday, Thursday with
//     Sunday for a Friday holiday; providers already blocked on either
//     date of the pair are left out of the pairing;
//   - back-to-back call among a week's Sunday-through-Thursday slots is
//     forbidden, except in weeks where holiday pairing requires it;
//   - a second Sunday-through-Thursday call in the same week is possible
//     but penalized, with the penalty waived when a holiday falls on one
//     of those days. Friday and Saturday call sits outside both spacing
//     rules.
func AddCallRules(
	f *Fabric,
	leaves []models.LeaveRecord,
	rotations []models.Rotation,
	rules models.ClinicRules,
) []cpmodel.Term {
	callDates := f.Calendar().CallDates()
	if len(callDates) == 0 {
		return nil
	}
	holidays := rules.HolidaySet()

	callVar := func(provider string, d models.Date) (cpmodel.Var, bool) {
		return f.Var(provider, d, models.Call)
	}
	blocked := make(map[string]map[models.Date]bool)
	blockCall := func(provider string, d models.Date) {
		if v, ok := callVar(provider, d); ok {
			f.Model().Fix(v, 0)
			if blocked[provider] == nil {
				blocked[provider] = make(map[models.Date]bool)
			}
			blocked[provider][d] = true
		}
	}

	// Coverage and the call pool.
	for _, d := range callDates {
		var vars []cpmodel.Var
		for _, name := range f.ProviderNames() {
			v, ok := callVar(name, d)
			if !ok {
				continue
			}
			if f.Providers()[name].MaxCallsPerMonth == 0 {
				f.Model().Fix(v, 0)
				continue
			}
			vars = append(vars, v)
		}
		f.Model().AddSumEquals(vars, 1)
	}

	// Leave blocks the day itself and call the evening before.
	for _, rec := range leaves {
		blockCall(rec.Provider, rec.Date)
		blockCall(rec.Provider, rec.Date.AddDays(-1))
	}

	// Rotations block call on type-specific offsets and pin pediatric
	// rotators to their in-rotation weekend.
	for _, rot := range rotations {
		if _, ok := f.Providers()[rot.Provider]; !ok {
			continue
		}
		for _, off := range rules.CallRules.BlockOffsetsFor(rot.Type) {
			blockCall(rot.Provider, rot.Start.AddDays(off))
		}
		if rot.Type == "peds" {
			for _, off := range rules.CallRules.PinnedOffsets {
				if v, ok := callVar(rot.Provider, rot.Start.AddDays(off)); ok {
					f.Model().Fix(v, 1)
				}
			}
		}
	}

	// Fracture-clinic providers skip call on their blocked weekday.
	for _, name := range f.ProviderNames() {
		if !f.Providers()[name].FractureClinic {
			continue
		}
		for _, d := range callDates {
			if d.WeekdayName() == rules.CallRules.FractureBlockedDay {
				blockCall(name, d)
			}
		}
	}

	// Holiday pairing.
	for h := range holidays {
		var pair models.Date
		switch h.Weekday() {
		case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
			pair = h.AddDays(-1)
		case time.Friday:
			// The Thursday slot covers through the holiday weekend, so its
			// provider also takes the following Sunday.
			h, pair = h.AddDays(-1), h.AddDays(2)
		default:
			continue
		}
		if !f.Calendar().Has(h, models.Call) || !f.Calendar().Has(pair, models.Call) {
			continue
		}
		for _, name := range f.ProviderNames() {
			if blocked[name][h] || blocked[name][pair] {
				continue
			}
			a, okA := callVar(name, h)
			b, okB := callVar(name, pair)
			if okA && okB {
				f.Model().AddEquivalence(a, b)
			}
		}
	}

	// Week grouping for spacing rules. Only the Sunday-through-Thursday
	// slots take part; Friday and Saturday call is spaced by the rolling
	// caps alone.
	weekendCall := func(d models.Date) bool {
		wd := d.Weekday()
		return wd == time.Friday || wd == time.Saturday
	}
	weeks := make(map[models.Date][]models.Date)
	var weekKeys []models.Date
	for _, d := range callDates {
		if weekendCall(d) {
			continue
		}
		ws := d.WeekStart(callWeekStart)
		if _, seen := weeks[ws]; !seen {
			weekKeys = append(weekKeys, ws)
		}
		weeks[ws] = append(weeks[ws], d)
	}
	models.SortDates(weekKeys)

	holidayInWeek := make(map[models.Date]bool)
	pairingHolidayInWeek := make(map[models.Date]bool)
	for h := range holidays {
		if weekendCall(h) {
			continue
		}
		ws := h.WeekStart(callWeekStart)
		holidayInWeek[ws] = true
		switch h.Weekday() {
		case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
			pairingHolidayInWeek[ws] = true
		}
	}

	var penalties []cpmodel.Term
	for _, ws := range weekKeys {
		dates := weeks[ws]

		// No back-to-back call inside the week, unless holiday pairing in
		// this week forces an adjacent pair.
		if !pairingHolidayInWeek[ws] {
			for i := 0; i+1 < len(dates); i++ {
				if dates[i].DaysUntil(dates[i+1]) != 1 {
					continue
				}
				for _, name := range f.ProviderNames() {
					a, okA := callVar(name, dates[i])
					b, okB := callVar(name, dates[i+1])
					if okA && okB {
						f.Model().AddNotBoth(a, b)
					}
				}
			}
		}

		if len(dates) < 2 {
			continue
		}
		for _, name := range f.ProviderNames() {
			if f.Providers()[name].MaxCallsPerMonth == 0 {
				continue
			}
			var vars []cpmodel.Var
			for _, d := range dates {
				if v, ok := callVar(name, d); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) < 2 {
				continue
			}
			excess := f.Model().NewIntVar(0, int64(len(vars)-1),
				fmt.Sprintf("call_excess_%s_%s", name, ws))
			terms := make([]cpmodel.Term, 0, len(vars)+1)
			for _, v := range vars {
				terms = append(terms, cpmodel.Term{Var: v, Coef: 1})
			}
			terms = append(terms, cpmodel.Term{Var: excess, Coef: -1})
			f.Model().AddLinearAtMost(terms, 1)
			if !holidayInWeek[ws] {
				penalties = append(penalties, cpmodel.Term{Var: excess, Coef: PenaltyWeight})
			}
		}
	}
	return penalties
}

// AddRollingCallCaps caps each provider's call shifts inside every rolling
// window anchored at a call date. Windows running past the end of the run
// are left unconstrained rather than judged on partial data.
func AddRollingCallCaps(f *Fabric, rules models.ClinicRules) {
	callDates := f.Calendar().CallDates()
	if len(callDates) == 0 {
		return
	}
	window := rules.CallRules.RollingWindowDays
	last := callDates[len(callDates)-1]

	for _, name := range f.ProviderNames() {
		quota := f.Providers()[name].MaxCallsPerMonth
		if quota == 0 {
			continue
		}
		for _, anchor := range callDates {
			end := anchor.AddDays(window - 1)
			if end.After(last.Time) {
				break
			}
			var vars []cpmodel.Var
			for _, d := range callDates {
				if d.Before(anchor.Time) || d.After(end.Time) {
					continue
				}
				if v, ok := f.Var(name, d, models.Call); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) > quota {
				f.Model().AddSumAtMost(vars, int64(quota))
			}
		}
	}
}
