package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-roster/models"
	"clinic-roster/scheduler"
)

func makeConfig(providers map[string]models.Provider, mutate func(*models.ClinicRules)) models.Config {
	sessions := []models.Session{models.Morning, models.Afternoon}
	cfg := models.Config{
		Providers: providers,
		ClinicRules: models.ClinicRules{
			ClinicDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday"},
			ClinicSessions: map[string][]models.Session{
				"Monday":    sessions,
				"Tuesday":   sessions,
				"Wednesday": sessions,
				"Thursday":  sessions,
			},
			RandomDayOff: models.RandomDayOff{
				EligibleDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday"},
			},
		},
	}
	if mutate != nil {
		mutate(&cfg.ClinicRules)
	}
	cfg.ApplyDefaults()
	return cfg
}

func baseRequest(cfg models.Config) scheduler.Request {
	return scheduler.Request{
		Config:              cfg,
		Start:               models.NewDate(2026, time.January, 5), // Monday
		End:                 models.NewDate(2026, time.January, 8), // Thursday
		Search:              true,
		InitialMinProviders: 1,
		Seed:                42,
		SolveBudget:         30 * time.Second,
	}
}

func TestGenerateSingleProviderWeek(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4},
	}, nil)

	result, err := scheduler.NewEngine(nil).Generate(baseRequest(cfg))
	assert.NoError(t, err)
	assert.True(t, result.Report.Solved())

	// One provider cannot hold every session at one, so the search steps
	// down to zero.
	assert.Equal(t, []int{1, 0}, result.Report.ThresholdsTried)
	assert.Equal(t, 0, result.Report.MinProvidersAchieved)

	// Four clinic days, two sessions each.
	assert.Len(t, result.Schedule, 8)

	worked := 0
	busyDays := map[models.Date]bool{}
	allDays := map[models.Date]bool{}
	for _, row := range result.Schedule {
		allDays[row.Date] = true
		if len(row.Providers) > 0 {
			worked += len(row.Providers)
			busyDays[row.Date] = true
		}
	}

	// The weekly quota is met exactly and one day stays fully free.
	assert.Equal(t, 4, worked)
	assert.Equal(t, len(allDays)-1, len(busyDays))
	assert.True(t, result.Report.HasObjective)
	assert.Equal(t, int64(0), result.Report.ObjectiveValue)

	assert.Len(t, result.ProviderSummary, 1)
	summary := result.ProviderSummary[0]
	assert.Equal(t, "carter", summary.Provider)
	assert.Equal(t, 4, summary.TotalSessions)
	assert.Equal(t, 4, summary.TotalAM+summary.TotalPM)
	assert.Len(t, result.WeekKeys, 1)
}

func TestGenerateFullStaffing(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4},
		"lee":    {Role: "MD", MaxClinicsPerWeek: 4},
	}, func(r *models.ClinicRules) {
		r.ClinicDays = []string{"Monday", "Tuesday"}
		r.RandomDayOff.EligibleDays = nil
	})

	req := baseRequest(cfg)
	req.End = models.NewDate(2026, time.January, 6)
	req.InitialMinProviders = 2

	result, err := scheduler.NewEngine(nil).Generate(req)
	assert.NoError(t, err)
	assert.True(t, result.Report.Solved())

	// Both providers fit in every session, so the first threshold holds.
	assert.Equal(t, []int{2}, result.Report.ThresholdsTried)
	assert.Equal(t, 2, result.Report.MinProvidersAchieved)
	for _, row := range result.Schedule {
		assert.Equal(t, 2, row.Count)
	}
}

func TestGenerateDirectModeInfeasible(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4},
	}, nil)

	req := baseRequest(cfg)
	req.Search = false
	req.InitialMinProviders = 3

	result, err := scheduler.NewEngine(nil).Generate(req)
	assert.NoError(t, err)
	assert.False(t, result.Report.Solved())
	assert.Equal(t, models.OutcomeInfeasible, result.Report.Outcome)
	assert.Equal(t, []int{3}, result.Report.ThresholdsTried)
	assert.Empty(t, result.Schedule)
}

func TestGenerateWithCall(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4, MaxCallsPerMonth: 5},
		"lee":    {Role: "MD", MaxClinicsPerWeek: 4, MaxCallsPerMonth: 5},
	}, func(r *models.ClinicRules) {
		r.ClinicDays = []string{"Monday", "Tuesday"}
		r.CallDays = []string{"Monday", "Wednesday"}
		r.RandomDayOff.EligibleDays = nil
	})

	req := baseRequest(cfg)
	req.InitialMinProviders = 0

	result, err := scheduler.NewEngine(nil).Generate(req)
	assert.NoError(t, err)
	assert.True(t, result.Report.Solved())

	callRows := 0
	for _, row := range result.Schedule {
		if row.Session == models.Call {
			callRows++
			assert.Len(t, row.Providers, 1)
		}
	}
	assert.Equal(t, 2, callRows)

	assert.Len(t, result.CallWeeks, 1)
	totalCalls := 0
	for _, cs := range result.CallSummary {
		totalCalls += cs.Total
	}
	assert.Equal(t, 2, totalCalls)
}

func TestGenerateLeaveRespected(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4},
	}, nil)

	req := baseRequest(cfg)
	req.InitialMinProviders = 0
	req.Leaves = []models.LeaveRecord{
		{Provider: "carter", Date: models.NewDate(2026, time.January, 5)},
	}

	result, err := scheduler.NewEngine(nil).Generate(req)
	assert.NoError(t, err)
	assert.True(t, result.Report.Solved())
	for _, row := range result.Schedule {
		if row.Date == models.NewDate(2026, time.January, 5) {
			assert.Empty(t, row.Providers)
		}
	}
}

func TestGenerateBadDateRange(t *testing.T) {
	cfg := makeConfig(map[string]models.Provider{
		"carter": {Role: "MD", MaxClinicsPerWeek: 4},
	}, nil)

	req := baseRequest(cfg)
	req.Start, req.End = req.End.AddDays(1), req.Start

	_, err := scheduler.NewEngine(nil).Generate(req)
	assert.Error(t, err)
}
