package constraints

import (
	"fmt"

	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// AddFractureCoverage asks for a fracture-clinic provider working the full
// target day each week. Coverage is soft: a miss indicator is penalized so
// a week without any available fracture provider stays solvable. The rule
// needs at least two fracture-clinic providers on the roster to matter.
func AddFractureCoverage(f *Fabric, rules models.ClinicRules) []cpmodel.Term {
	var fracture []string
	for _, name := range f.ProviderNames() {
		if f.Providers()[name].FractureClinic {
			fracture = append(fracture, name)
		}
	}
	if len(fracture) < 2 {
		return nil
	}

	var penalties []cpmodel.Term
	for _, d := range f.Calendar().ClinicDates() {
		if d.WeekdayName() != rules.FractureClinicDay {
			continue
		}
		var fullDay []cpmodel.Var
		for _, name := range fracture {
			am, okAM := f.Var(name, d, models.Morning)
			pm, okPM := f.Var(name, d, models.Afternoon)
			if !okAM || !okPM {
				continue
			}
			ind := f.Model().NewBoolVar(fmt.Sprintf("fracture_%s_%s", name, d))
			f.Model().AddConjunctionIndicator(ind, []cpmodel.Var{am, pm})
			fullDay = append(fullDay, ind)
		}
		if len(fullDay) == 0 {
			continue
		}
		miss := f.Model().NewBoolVar(fmt.Sprintf("fracture_miss_%s", d))
		f.Model().AddAllZeroIndicator(miss, fullDay)
		penalties = append(penalties, cpmodel.Term{Var: miss, Coef: PenaltyWeight})
	}
	return penalties
}
