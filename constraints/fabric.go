// Package constraints assembles the scheduling rules of a department into
// a constraint model. Each assembler covers one rule family and returns
// any penalty terms it contributes to the objective.
package constraints

import (
	"fmt"

	"clinic-roster/calendar"
	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

// PenaltyWeight scales every soft-constraint violation in the objective.
const PenaltyWeight = 100

// Fabric owns the assignment variables: one boolean per provider, date and
// session the calendar schedules.
type Fabric struct {
	model     *cpmodel.Model
	cal       *calendar.Calendar
	providers map[string]models.Provider
	vars      map[string]map[models.Date]map[models.Session]cpmodel.Var
}

// NewFabric creates the full variable grid for the providers over the
// calendar.
func NewFabric(m *cpmodel.Model, providers map[string]models.Provider, cal *calendar.Calendar) *Fabric {
	f := &Fabric{
		model:     m,
		cal:       cal,
		providers: providers,
		vars:      make(map[string]map[models.Date]map[models.Session]cpmodel.Var, len(providers)),
	}
	for _, name := range models.ProviderNames(providers) {
		byDate := make(map[models.Date]map[models.Session]cpmodel.Var, cal.Len())
		for _, d := range cal.Dates() {
			bySession := make(map[models.Session]cpmodel.Var)
			for _, s := range cal.Sessions(d) {
				bySession[s] = m.NewBoolVar(fmt.Sprintf("%s_%s_%s", name, d, s))
			}
			byDate[d] = bySession
		}
		f.vars[name] = byDate
	}
	return f
}

// Model returns the underlying constraint model.
func (f *Fabric) Model() *cpmodel.Model { return f.model }

// Calendar returns the session grid the fabric was built over.
func (f *Fabric) Calendar() *calendar.Calendar { return f.cal }

// Providers returns the provider roster.
func (f *Fabric) Providers() map[string]models.Provider { return f.providers }

// ProviderNames returns the roster names in sorted order.
func (f *Fabric) ProviderNames() []string { return models.ProviderNames(f.providers) }

// Var returns the assignment variable for a provider, date and session.
// The second return is false when the calendar has no such session.
func (f *Fabric) Var(provider string, d models.Date, s models.Session) (cpmodel.Var, bool) {
	v, ok := f.vars[provider][d][s]
	return v, ok
}

// DayVars returns a provider's variables for every session of a date.
func (f *Fabric) DayVars(provider string, d models.Date) []cpmodel.Var {
	var out []cpmodel.Var
	for _, s := range f.cal.Sessions(d) {
		if v, ok := f.vars[provider][d][s]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ClinicVars returns a provider's clinic-session variables for a date,
// leaving call out.
func (f *Fabric) ClinicVars(provider string, d models.Date) []cpmodel.Var {
	var out []cpmodel.Var
	for _, s := range f.cal.Sessions(d) {
		if !s.IsClinic() {
			continue
		}
		if v, ok := f.vars[provider][d][s]; ok {
			out = append(out, v)
		}
	}
	return out
}
