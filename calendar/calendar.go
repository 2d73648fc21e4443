// Package calendar expands a date range and the department clinic rules
// into the concrete grid of schedulable sessions.
package calendar

import (
	"fmt"

	"clinic-roster/errors"
	"clinic-roster/models"
)

// Calendar is the expanded session grid for one scheduling run. Dates are
// kept in ascending order; only dates with at least one session appear.
type Calendar struct {
	dates    []models.Date
	sessions map[models.Date][]models.Session
	weekday  map[models.Date]string
}

// Build expands [start, end] against the clinic rules. Holidays drop the
// clinic sessions of the day; whether they also drop the call slot is a
// department policy flag.
func Build(start, end models.Date, rules models.ClinicRules) (*Calendar, error) {
	if end.Before(start.Time) {
		return nil, fmt.Errorf("calendar: start %s after end %s: %w", start, end, errors.ErrDateRange)
	}
	if len(rules.ClinicDays) == 0 {
		return nil, &errors.ConfigError{Key: "clinic_rules.clinic_days", Err: errors.ErrMissingRule}
	}
	if len(rules.ClinicSessions) == 0 {
		return nil, &errors.ConfigError{Key: "clinic_rules.clinic_sessions", Err: errors.ErrMissingRule}
	}

	clinicDays := make(map[string]bool, len(rules.ClinicDays))
	for _, day := range rules.ClinicDays {
		if _, ok := models.ParseWeekday(day); !ok {
			return nil, &errors.ConfigError{Key: "clinic_rules.clinic_days", Err: fmt.Errorf("unknown weekday %q", day)}
		}
		clinicDays[day] = true
	}
	callDays := make(map[string]bool, len(rules.CallDays))
	for _, day := range rules.CallDays {
		if _, ok := models.ParseWeekday(day); !ok {
			return nil, &errors.ConfigError{Key: "clinic_rules.call_days", Err: fmt.Errorf("unknown weekday %q", day)}
		}
		callDays[day] = true
	}
	for day, sessions := range rules.ClinicSessions {
		if _, ok := models.ParseWeekday(day); !ok {
			return nil, &errors.ConfigError{Key: "clinic_rules.clinic_sessions", Err: fmt.Errorf("unknown weekday %q", day)}
		}
		for _, s := range sessions {
			if !s.IsClinic() {
				return nil, &errors.ConfigError{Key: "clinic_rules.clinic_sessions", Err: fmt.Errorf("%w: %q", errors.ErrUnknownSession, s)}
			}
		}
	}

	holidays := rules.HolidaySet()
	cal := &Calendar{
		sessions: make(map[models.Date][]models.Session),
		weekday:  make(map[models.Date]string),
	}
	for d := start; !d.After(end.Time); d = d.AddDays(1) {
		name := d.WeekdayName()
		holiday := holidays[d]

		var sessions []models.Session
		if clinicDays[name] && !holiday {
			sessions = append(sessions, rules.ClinicSessions[name]...)
		}
		if callDays[name] && !(holiday && rules.HolidaysSuppressCall) {
			sessions = append(sessions, models.Call)
		}
		if len(sessions) == 0 {
			continue
		}
		cal.dates = append(cal.dates, d)
		cal.sessions[d] = sessions
		cal.weekday[d] = name
	}
	return cal, nil
}

// Dates returns the schedulable dates in ascending order.
func (c *Calendar) Dates() []models.Date { return c.dates }

// Sessions returns the sessions scheduled on a date.
func (c *Calendar) Sessions(d models.Date) []models.Session { return c.sessions[d] }

// Has reports whether a session exists on a date.
func (c *Calendar) Has(d models.Date, s models.Session) bool {
	for _, got := range c.sessions[d] {
		if got == s {
			return true
		}
	}
	return false
}

// CallDates returns the dates carrying a call slot, ascending.
func (c *Calendar) CallDates() []models.Date {
	var out []models.Date
	for _, d := range c.dates {
		if c.Has(d, models.Call) {
			out = append(out, d)
		}
	}
	return out
}

// ClinicDates returns the dates carrying at least one clinic session.
func (c *Calendar) ClinicDates() []models.Date {
	var out []models.Date
	for _, d := range c.dates {
		for _, s := range c.sessions[d] {
			if s.IsClinic() {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Len returns the number of schedulable dates.
func (c *Calendar) Len() int { return len(c.dates) }
