package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-roster/models"
)

func TestParseDate(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr bool
	}{
		"Valid":       {input: "2026-03-15"},
		"BadFormat":   {input: "15/03/2026", wantErr: true},
		"Empty":       {input: "", wantErr: true},
		"NotADate":    {input: "someday", wantErr: true},
		"ValidLeap":   {input: "2024-02-29"},
		"InvalidLeap": {input: "2026-02-29", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := models.ParseDate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.input, d.String())
		})
	}
}

func TestWeekStart(t *testing.T) {
	// 2026-01-07 is a Wednesday.
	wed := models.NewDate(2026, time.January, 7)

	tests := map[string]struct {
		date     models.Date
		start    time.Weekday
		expected models.Date
	}{
		"WednesdayMondayWeek": {
			date:     wed,
			start:    time.Monday,
			expected: models.NewDate(2026, time.January, 5),
		},
		"WednesdaySundayWeek": {
			date:     wed,
			start:    time.Sunday,
			expected: models.NewDate(2026, time.January, 4),
		},
		"SundayMondayWeekBelongsToPrevious": {
			date:     models.NewDate(2026, time.January, 11),
			start:    time.Monday,
			expected: models.NewDate(2026, time.January, 5),
		},
		"WeekStartIsFixpoint": {
			date:     models.NewDate(2026, time.January, 5),
			start:    time.Monday,
			expected: models.NewDate(2026, time.January, 5),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.date.WeekStart(tc.start))
		})
	}
}

func TestAddDaysAndDaysUntil(t *testing.T) {
	d := models.NewDate(2026, time.January, 30)
	assert.Equal(t, models.NewDate(2026, time.February, 2), d.AddDays(3))
	assert.Equal(t, models.NewDate(2026, time.January, 27), d.AddDays(-3))
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
}

func TestExpandRotations(t *testing.T) {
	rotations := []models.Rotation{
		{Provider: "carter", Start: models.NewDate(2026, time.March, 2)},
	}
	days := models.ExpandRotations(rotations, 7)
	assert.Len(t, days, 7)
	assert.Equal(t, models.NewDate(2026, time.March, 2), days[0].Date)
	assert.Equal(t, models.NewDate(2026, time.March, 8), days[6].Date)
	for _, day := range days {
		assert.Equal(t, "carter", day.Provider)
	}
}

func TestSiblingSchedule(t *testing.T) {
	sched := &models.SiblingSchedule{Rows: []models.SiblingRow{
		{Date: models.NewDate(2026, time.March, 2), Session: models.Morning, Providers: []string{"lee", "patel"}},
		{Date: models.NewDate(2026, time.March, 3), Session: models.Call, Providers: []string{"lee"}},
		{Date: models.NewDate(2026, time.March, 9), Session: models.Afternoon, Providers: []string{"lee"}},
	}}

	clinic := sched.ClinicDates("lee")
	assert.True(t, clinic[models.NewDate(2026, time.March, 2)])
	assert.False(t, clinic[models.NewDate(2026, time.March, 3)])

	call := sched.CallDates("lee")
	assert.True(t, call[models.NewDate(2026, time.March, 3)])
	assert.Empty(t, sched.CallDates("patel"))

	weekly := sched.WeeklyClinicCount("lee", time.Monday)
	assert.Equal(t, 1, weekly[models.NewDate(2026, time.March, 2)])
	assert.Equal(t, 1, weekly[models.NewDate(2026, time.March, 9)])

	// Nil schedules behave as empty.
	var nilSched *models.SiblingSchedule
	assert.Empty(t, nilSched.ClinicDates("lee"))
}
