// Package models holds the shared data types for the clinic roster
// scheduler: calendar dates, provider configuration, input records and the
// output tables produced by a scheduling run.
package models

import (
	"sort"
	"strings"
	"time"
)

// Session is a schedulable unit of a day.
type Session string

const (
	Morning   Session = "morning"
	Afternoon Session = "afternoon"
	Call      Session = "call"
)

// IsClinic reports whether the session is an ordinary clinic session as
// opposed to on-call duty.
func (s Session) IsClinic() bool {
	return s == Morning || s == Afternoon
}

// Provider describes one member of the department roster. Provider data is
// immutable for the duration of a scheduling run.
type Provider struct {
	Name              string `yaml:"-"`
	Role              string `yaml:"role" validate:"required,oneof=MD DO NP PA"`
	MaxClinicsPerWeek int    `yaml:"max_clinics_per_week" validate:"gte=0"`
	RDOPreference     string `yaml:"rdo_preference"`
	NeedsRDO          *bool  `yaml:"needs_rdo"`
	MaxCallsPerMonth  int    `yaml:"max_calls_per_month" validate:"gte=0"`
	FractureClinic    bool   `yaml:"fracture_clinic"`
	FridayOnly        bool   `yaml:"friday_only"`
}

// WantsRDO reports whether the provider receives a weekly random day off.
// Providers default to needing one unless the config says otherwise.
func (p Provider) WantsRDO() bool {
	return p.NeedsRDO == nil || *p.NeedsRDO
}

// HolidayWeekBlocksRDO reports whether a federal holiday in a week removes
// the provider's day off for that week. This applies to physicians only;
// NP/PA providers keep their day off during holiday weeks.
func (p Provider) HolidayWeekBlocksRDO() bool {
	return p.Role == "MD" || p.Role == "DO"
}

// LeaveRecord blocks all sessions for a provider on a single day.
type LeaveRecord struct {
	Provider string
	Date     Date
}

// Rotation is the start of a multi-day inpatient block for a provider. The
// block is expanded to contiguous calendar days of the configured length.
type Rotation struct {
	Provider string
	Start    Date
	Type     string
}

// RotationDay is a single expanded day of an inpatient rotation.
type RotationDay struct {
	Provider string
	Date     Date
}

// ExpandRotations converts rotation starts into one RotationDay per
// calendar day of each rotation.
func ExpandRotations(rotations []Rotation, length int) []RotationDay {
	days := make([]RotationDay, 0, len(rotations)*length)
	for _, rot := range rotations {
		for i := 0; i < length; i++ {
			days = append(days, RotationDay{
				Provider: rot.Provider,
				Date:     rot.Start.AddDays(i),
			})
		}
	}
	return days
}

// SiblingRow is one (date, session) assignment from a sibling department's
// already-solved schedule.
type SiblingRow struct {
	Date      Date
	Session   Session
	Providers []string
}

// SiblingSchedule is the schedule of a sibling department, used to couple
// providers shared between departments.
type SiblingSchedule struct {
	Rows []SiblingRow
}

// ClinicDates returns the set of dates on which the provider works a
// clinic session in the sibling department.
func (s *SiblingSchedule) ClinicDates(provider string) map[Date]bool {
	return s.datesFor(provider, func(sess Session) bool { return sess.IsClinic() })
}

// CallDates returns the set of dates on which the provider takes call in
// the sibling department.
func (s *SiblingSchedule) CallDates(provider string) map[Date]bool {
	return s.datesFor(provider, func(sess Session) bool { return sess == Call })
}

func (s *SiblingSchedule) datesFor(provider string, match func(Session) bool) map[Date]bool {
	dates := make(map[Date]bool)
	if s == nil {
		return dates
	}
	for _, row := range s.Rows {
		if !match(row.Session) {
			continue
		}
		for _, p := range row.Providers {
			if strings.TrimSpace(p) == provider {
				dates[row.Date] = true
			}
		}
	}
	return dates
}

// WeeklyClinicCount returns, per week-start date, how many clinic sessions
// the provider already works in the sibling department that week.
func (s *SiblingSchedule) WeeklyClinicCount(provider string, weekStart time.Weekday) map[Date]int {
	counts := make(map[Date]int)
	if s == nil {
		return counts
	}
	for d := range s.ClinicDates(provider) {
		counts[d.WeekStart(weekStart)]++
	}
	return counts
}

// ScheduleRow is one (date, session) slot of the solved schedule together
// with the providers assigned to it.
type ScheduleRow struct {
	Date      Date     `json:"date"`
	DayOfWeek string   `json:"day_of_week"`
	Session   Session  `json:"session"`
	Providers []string `json:"providers"`
	Count     int      `json:"count"`
}

// WeekCell is one weekly column of a provider summary: total clinic
// sessions and the longest consecutive-session streak within the week.
type WeekCell struct {
	Total       int `json:"total"`
	Consecutive int `json:"consecutive"`
}

// ProviderSummary aggregates one provider's clinic workload over the run.
type ProviderSummary struct {
	Provider          string               `json:"provider"`
	Weeks             map[WeekKey]WeekCell `json:"weeks"`
	TotalSessions     int                  `json:"total_sessions"`
	MondayOrFridayOff int                  `json:"monday_or_friday_off"`
	TotalAM           int                  `json:"total_am"`
	TotalPM           int                  `json:"total_pm"`
}

// CallSummary aggregates one provider's call shifts per call week. Call
// weeks start on Sunday, which intentionally differs from the
// Monday-starting clinic weeks.
type CallSummary struct {
	Provider string       `json:"provider"`
	Weeks    map[Date]int `json:"weeks"`
	Total    int          `json:"total_call"`
}

// Outcome is the terminal state of a scheduling run.
type Outcome string

const (
	OutcomeOptimal      Outcome = "OPTIMAL"
	OutcomeFeasible     Outcome = "FEASIBLE"
	OutcomeInfeasible   Outcome = "INFEASIBLE"
	OutcomeModelInvalid Outcome = "MODEL_INVALID"
	OutcomeUnknown      Outcome = "UNKNOWN"
)

// Report is the solution-status record for a scheduling run. Branch and
// conflict counts are passed through from the solver verbatim for
// diagnostics.
type Report struct {
	Outcome              Outcome       `json:"outcome"`
	MinProvidersAchieved int           `json:"min_providers_achieved"`
	ObjectiveValue       int64         `json:"objective_value"`
	HasObjective         bool          `json:"has_objective"`
	SolveTime            time.Duration `json:"solve_time"`
	AttemptSolveTime     time.Duration `json:"attempt_solve_time"`
	Branches             int64         `json:"branches"`
	Conflicts            int64         `json:"conflicts"`
	ThresholdsTried      []int         `json:"thresholds_tried"`
}

// Solved reports whether the run produced a usable schedule.
func (r Report) Solved() bool {
	return r.Outcome == OutcomeOptimal || r.Outcome == OutcomeFeasible
}

// ProviderNames returns the sorted names of a provider map.
func ProviderNames(providers map[string]Provider) []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
