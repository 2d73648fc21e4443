package constraints

import "clinic-roster/cpmodel"

// AddStaffingBounds holds every clinic session between the staffing
// minimum and maximum. Call slots are covered by their own exactly-one
// rule and are left alone here.
func AddStaffingBounds(f *Fabric, min, max int) {
	for _, d := range f.Calendar().Dates() {
		for _, s := range f.Calendar().Sessions(d) {
			if !s.IsClinic() {
				continue
			}
			var vars []cpmodel.Var
			for _, name := range f.ProviderNames() {
				if v, ok := f.Var(name, d, s); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) == 0 {
				continue
			}
			f.Model().AddSumInRange(vars, int64(min), int64(max))
		}
	}
}
