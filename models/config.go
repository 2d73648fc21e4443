package models

import "time"

// Config is the department configuration document. One config fully
// describes a department's roster and clinic rules for a scheduling run.
type Config struct {
	Providers   map[string]Provider `yaml:"providers" validate:"required,min=1,dive"`
	ClinicRules ClinicRules         `yaml:"clinic_rules" validate:"required"`
}

// ClinicRules are the department-level scheduling rules.
type ClinicRules struct {
	ClinicDays     []string             `yaml:"clinic_days" validate:"required,min=1"`
	ClinicSessions map[string][]Session `yaml:"clinic_sessions" validate:"required,min=1"`
	CallDays       []string             `yaml:"call_days"`
	HolidayDates   []Date               `yaml:"holiday_dates"`

	// HolidaysSuppressCall controls whether a holiday removes the call
	// slot along with the clinic sessions. Departments disagree on this,
	// so it is an explicit policy flag.
	HolidaysSuppressCall bool `yaml:"holidays_suppress_call"`

	// WeekStart is the weekday that begins a clinic week for weekly
	// constraint grouping: Monday everywhere except pediatrics, which
	// groups Sunday through Saturday.
	WeekStart string `yaml:"week_start" validate:"omitempty,oneof=Sunday Monday"`

	// AdminMorningDay names the weekday whose morning is reserved for
	// admin time; it resets consecutive-session streaks in summaries.
	AdminMorningDay string `yaml:"admin_morning_day"`

	// FractureClinicDay is the mid-week day that needs full-day coverage
	// by a fracture-clinic provider.
	FractureClinicDay string `yaml:"fracture_clinic_day"`

	Staffing          Staffing          `yaml:"staffing"`
	RandomDayOff      RandomDayOff      `yaml:"random_day_off"`
	InpatientSchedule InpatientSchedule `yaml:"inpatient_schedule"`
	ClinicCount       ClinicCount       `yaml:"clinic_count"`
	CallRules         CallRules         `yaml:"call_rules"`
}

// Staffing bounds the number of providers per clinic session. The minimum
// is the parameter relaxed by the feasibility search.
type Staffing struct {
	MinProvidersPerSession int `yaml:"min_providers_per_session" validate:"gte=0"`
	MaxProvidersPerSession int `yaml:"max_providers_per_session" validate:"gte=0"`
}

// RandomDayOff configures which weekdays may carry a provider's weekly
// day off.
type RandomDayOff struct {
	EligibleDays []string `yaml:"eligible_days"`
}

// InpatientSchedule configures rotation expansion and the relief days
// blocked around a rotation.
type InpatientSchedule struct {
	InpatientLength int `yaml:"inpatient_length"`

	// PreInpatientRDO / PostInpatientRDO, when set, name the weekday the
	// relief day is expected to land on; the block is skipped when the
	// computed date falls elsewhere.
	PreInpatientRDO  string `yaml:"pre_inpatient_rdo"`
	PostInpatientRDO string `yaml:"post_inpatient_rdo"`

	// PostReliefOffsetDays is the fixed offset from rotation start to the
	// post-rotation relief day.
	PostReliefOffsetDays int `yaml:"post_relief_offset_days"`
}

// ClinicCount configures the weekly clinic-count targeting policy.
type ClinicCount struct {
	// MinTargetOffset picks the soft weekly minimum: 0 means the minimum
	// equals the adjusted weekly maximum, 1 means one session less.
	MinTargetOffset int `yaml:"min_target_offset" validate:"gte=0,lte=1"`

	// ShortfallBound caps each weekly shortfall variable.
	ShortfallBound int `yaml:"shortfall_bound" validate:"gte=0"`
}

// CallRules configures the call-duty constraint family.
type CallRules struct {
	// FractureBlockedDay is the weekday on which fracture-clinic
	// providers cannot take call.
	FractureBlockedDay string `yaml:"fracture_blocked_day"`

	// RollingWindowDays is the size of the rolling window used for
	// per-provider call caps.
	RollingWindowDays int `yaml:"rolling_window_days" validate:"gte=0"`

	// PedsBlockOffsets / DefaultBlockOffsets are day offsets from a
	// rotation start on which the rotating provider cannot take call,
	// chosen by rotation type.
	PedsBlockOffsets    []int `yaml:"peds_block_offsets"`
	DefaultBlockOffsets []int `yaml:"default_block_offsets"`

	// PinnedOffsets are day offsets from a pediatric rotation start on
	// which the rotating provider must take call (weekend coverage).
	PinnedOffsets []int `yaml:"pinned_offsets"`
}

// ApplyDefaults fills the optional configuration knobs with the values the
// departments historically used.
func (c *Config) ApplyDefaults() {
	r := &c.ClinicRules
	if r.WeekStart == "" {
		r.WeekStart = "Monday"
	}
	if r.AdminMorningDay == "" {
		r.AdminMorningDay = "Thursday"
	}
	if r.FractureClinicDay == "" {
		r.FractureClinicDay = "Wednesday"
	}
	if r.Staffing.MaxProvidersPerSession == 0 {
		r.Staffing.MaxProvidersPerSession = 5
	}
	if r.InpatientSchedule.InpatientLength == 0 {
		r.InpatientSchedule.InpatientLength = 7
	}
	if r.InpatientSchedule.PostReliefOffsetDays == 0 {
		r.InpatientSchedule.PostReliefOffsetDays = 10
	}
	if r.ClinicCount.ShortfallBound == 0 {
		r.ClinicCount.ShortfallBound = 10
	}
	if r.CallRules.FractureBlockedDay == "" {
		r.CallRules.FractureBlockedDay = "Tuesday"
	}
	if r.CallRules.RollingWindowDays == 0 {
		r.CallRules.RollingWindowDays = 28
	}
	if r.CallRules.PedsBlockOffsets == nil {
		r.CallRules.PedsBlockOffsets = []int{-2, -1, 0, 1, 2, 5, 6, 8, 9}
	}
	if r.CallRules.DefaultBlockOffsets == nil {
		r.CallRules.DefaultBlockOffsets = []int{-2, -1, 0, 1, 2, 3, 4, 5, 6, 8, 9}
	}
	if r.CallRules.PinnedOffsets == nil {
		r.CallRules.PinnedOffsets = []int{3, 4}
	}
	for name, p := range c.Providers {
		p.Name = name
		c.Providers[name] = p
	}
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday maps a weekday name from configuration to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[name]
	return wd, ok
}

// HasCall reports whether the department schedules on-call duty.
func (r ClinicRules) HasCall() bool {
	return len(r.CallDays) > 0
}

// WeekStartDay returns the weekday that begins a clinic week.
func (r ClinicRules) WeekStartDay() time.Weekday {
	if r.WeekStart == "Sunday" {
		return time.Sunday
	}
	return time.Monday
}

// HolidaySet returns the holiday dates as a set.
func (r ClinicRules) HolidaySet() map[Date]bool {
	set := make(map[Date]bool, len(r.HolidayDates))
	for _, d := range r.HolidayDates {
		set[d] = true
	}
	return set
}

// BlockOffsetsFor returns the call-block offsets for a rotation type.
func (r CallRules) BlockOffsetsFor(rotationType string) []int {
	if rotationType == "peds" {
		return r.PedsBlockOffsets
	}
	return r.DefaultBlockOffsets
}
