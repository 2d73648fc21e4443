package constraints

import "clinic-roster/models"

// AddLeaveBlocks pins every session of a provider's leave days to zero.
// Leave records for providers or dates outside the run are ignored.
func AddLeaveBlocks(f *Fabric, leaves []models.LeaveRecord) {
	for _, rec := range leaves {
		if _, ok := f.Providers()[rec.Provider]; !ok {
			continue
		}
		for _, v := range f.DayVars(rec.Provider, rec.Date) {
			f.Model().Fix(v, 0)
		}
	}
}
