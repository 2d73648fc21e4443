package models

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a single calendar day with no time-of-day component. Every Date
// is normalized to midnight UTC, which makes it safe to use as a map key
// and to compare with ==.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// WeekdayName returns the full English weekday name, e.g. "Monday".
func (d Date) WeekdayName() string {
	return d.Weekday().String()
}

// WeekStart returns the most recent date on or before d that falls on the
// given weekday. It identifies the week containing d for a week that
// starts on that weekday.
func (d Date) WeekStart(start time.Weekday) Date {
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDays(-offset)
}

// ISOWeekKey returns the ISO-8601 (Monday-starting) week identifier for d.
func (d Date) ISOWeekKey() WeekKey {
	year, week := d.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// UnmarshalYAML accepts dates written as YYYY-MM-DD scalars.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML renders the date back to its YYYY-MM-DD form.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// MarshalJSON renders the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// MarshalText keeps the YYYY-MM-DD form when the date is used as a map key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekKey identifies an ISO calendar week. It is used for the weekly
// columns of provider summaries.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Less orders week keys chronologically.
func (k WeekKey) Less(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// SortDates sorts a slice of dates in ascending order in place.
func SortDates(dates []Date) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j].Time)
	})
}
