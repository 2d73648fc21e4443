package constraints

import "clinic-roster/models"

// AddInpatientBlocks removes inpatient providers from the clinic grid. Every
// expanded rotation day is blocked outright. The day before a rotation and
// the post-rotation relief day are blocked too, gated on the weekday the
// department reserves for relief when one is configured.
//
// When callAware is set, call slots stay open on relief days; call blocking
// around rotations is handled by the call rules instead.
func AddInpatientBlocks(
	f *Fabric,
	rotations []models.Rotation,
	days []models.RotationDay,
	rules models.ClinicRules,
	callAware bool,
) {
	blockDay := func(provider string, d models.Date) {
		for _, s := range f.Calendar().Sessions(d) {
			if callAware && s == models.Call {
				continue
			}
			if v, ok := f.Var(provider, d, s); ok {
				f.Model().Fix(v, 0)
			}
		}
	}

	for _, day := range days {
		if _, ok := f.Providers()[day.Provider]; !ok {
			continue
		}
		blockDay(day.Provider, day.Date)
	}

	sched := rules.InpatientSchedule
	for _, rot := range rotations {
		if _, ok := f.Providers()[rot.Provider]; !ok {
			continue
		}
		pre := rot.Start.AddDays(-1)
		if sched.PreInpatientRDO == "" || pre.WeekdayName() == sched.PreInpatientRDO {
			blockDay(rot.Provider, pre)
		}
		post := rot.Start.AddDays(sched.PostReliefOffsetDays)
		if sched.PostInpatientRDO == "" || post.WeekdayName() == sched.PostInpatientRDO {
			blockDay(rot.Provider, post)
		}
	}
}
