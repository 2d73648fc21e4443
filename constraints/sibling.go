package constraints

import "clinic-roster/models"

// AddSiblingCoupling blocks slots already taken by a sibling department's
// solved schedule: a provider cannot work the same clinic session in both
// departments, and sibling call keeps them out of the next afternoon here.
// The weekly load carried over from the sibling schedule is handled by the
// clinic-count targets.
func AddSiblingCoupling(f *Fabric, sibling *models.SiblingSchedule) {
	if sibling == nil {
		return
	}
	for _, row := range sibling.Rows {
		for _, name := range row.Providers {
			if _, ok := f.Providers()[name]; !ok {
				continue
			}
			if row.Session.IsClinic() {
				if v, ok := f.Var(name, row.Date, row.Session); ok {
					f.Model().Fix(v, 0)
				}
			}
			if row.Session == models.Call {
				if v, ok := f.Var(name, row.Date.AddDays(1), models.Afternoon); ok {
					f.Model().Fix(v, 0)
				}
			}
		}
	}
}
