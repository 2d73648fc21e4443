package constraints

import "clinic-roster/models"

// AddPostCallRest keeps the provider coming off a call shift out of the
// following afternoon's clinic.
func AddPostCallRest(f *Fabric) {
	for _, d := range f.Calendar().CallDates() {
		next := d.AddDays(1)
		for _, name := range f.ProviderNames() {
			call, okCall := f.Var(name, d, models.Call)
			pm, okPM := f.Var(name, next, models.Afternoon)
			if okCall && okPM {
				f.Model().AddNotBoth(call, pm)
			}
		}
	}
}
