package constraints

import (
	"fmt"

	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// AddClinicCountTargets bounds each provider's clinic sessions per week.
// The weekly maximum is hard; a soft minimum keeps providers near their
// target, with a bounded shortfall variable absorbing weeks where leave or
// rotations make the target unreachable.
//
// The weekly maximum shrinks by two in the week a provider returns from an
// inpatient rotation, and by any clinic sessions already worked that week
// in a sibling department.
func AddClinicCountTargets(
	f *Fabric,
	rotations []models.Rotation,
	sibling *models.SiblingSchedule,
	rules models.ClinicRules,
) []cpmodel.Term {
	weekStart := rules.WeekStartDay()

	// Week-start date -> clinic dates of that week, ascending.
	weeks := make(map[models.Date][]models.Date)
	var weekKeys []models.Date
	for _, d := range f.Calendar().ClinicDates() {
		ws := d.WeekStart(weekStart)
		if _, seen := weeks[ws]; !seen {
			weekKeys = append(weekKeys, ws)
		}
		weeks[ws] = append(weeks[ws], d)
	}
	models.SortDates(weekKeys)

	// Provider -> weeks whose maximum drops after an inpatient rotation.
	postWeeks := make(map[string]map[models.Date]bool)
	for _, rot := range rotations {
		back := rot.Start.AddDays(rules.InpatientSchedule.InpatientLength)
		ws := back.WeekStart(weekStart)
		if postWeeks[rot.Provider] == nil {
			postWeeks[rot.Provider] = make(map[models.Date]bool)
		}
		postWeeks[rot.Provider][ws] = true
	}

	var penalties []cpmodel.Term
	for _, name := range f.ProviderNames() {
		p := f.Providers()[name]
		siblingLoad := sibling.WeeklyClinicCount(name, weekStart)
		for _, ws := range weekKeys {
			var vars []cpmodel.Var
			for _, d := range weeks[ws] {
				vars = append(vars, f.ClinicVars(name, d)...)
			}
			if len(vars) == 0 {
				continue
			}
			adjMax := p.MaxClinicsPerWeek
			if postWeeks[name][ws] {
				adjMax -= 2
			}
			adjMax -= siblingLoad[ws]
			if adjMax < 0 {
				adjMax = 0
			}
			f.Model().AddSumAtMost(vars, int64(adjMax))

			minTarget := 0
			if adjMax > 1 {
				minTarget = adjMax - rules.ClinicCount.MinTargetOffset
				if minTarget < 1 {
					minTarget = 1
				}
			}
			if minTarget == 0 {
				continue
			}
			shortfall := f.Model().NewIntVar(0, int64(rules.ClinicCount.ShortfallBound),
				fmt.Sprintf("shortfall_%s_%s", name, ws))
			terms := make([]cpmodel.Term, 0, len(vars)+1)
			for _, v := range vars {
				terms = append(terms, cpmodel.Term{Var: v, Coef: 1})
			}
			terms = append(terms, cpmodel.Term{Var: shortfall, Coef: 1})
			f.Model().AddLinearAtLeast(terms, int64(minTarget))
			penalties = append(penalties, cpmodel.Term{Var: shortfall, Coef: PenaltyWeight})
		}
	}
	return penalties
}
