package constraints

import "time"

// AddFridayOnly restricts providers flagged friday_only to Friday clinic
// sessions.
func AddFridayOnly(f *Fabric) {
	for _, name := range f.ProviderNames() {
		if !f.Providers()[name].FridayOnly {
			continue
		}
		for _, d := range f.Calendar().Dates() {
			if d.Weekday() == time.Friday {
				continue
			}
			for _, v := range f.ClinicVars(name, d) {
				f.Model().Fix(v, 0)
			}
		}
	}
}
