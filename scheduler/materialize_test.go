package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-roster/calendar"
	"clinic-roster/constraints"
	"clinic-roster/cpmodel"
	"clinic-roster/models"
)

func weekdayClinicConfig() models.Config {
	sessions := []models.Session{models.Morning, models.Afternoon}
	cfg := models.Config{
		Providers: map[string]models.Provider{
			"carter": {Role: "MD", MaxClinicsPerWeek: 8},
		},
		ClinicRules: models.ClinicRules{
			ClinicDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			ClinicSessions: map[string][]models.Session{
				"Monday":    sessions,
				"Tuesday":   sessions,
				"Wednesday": sessions,
				"Thursday":  sessions,
				"Friday":    sessions,
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// materializeWorked pins carter to the given sessions, solves the otherwise
// unconstrained model, and materializes the assignment.
func materializeWorked(t *testing.T, cfg models.Config, start, end models.Date, worked map[models.Date][]models.Session) *Result {
	t.Helper()
	cal, err := calendar.Build(start, end, cfg.ClinicRules)
	assert.NoError(t, err)

	model := cpmodel.NewModel()
	fabric := constraints.NewFabric(model, cfg.Providers, cal)
	for d, sessions := range worked {
		for _, s := range sessions {
			v, ok := fabric.Var("carter", d, s)
			assert.True(t, ok, "session %s %s", d, s)
			model.Fix(v, 1)
		}
	}

	res := cpmodel.Solve(model, cpmodel.WithSeed(1), cpmodel.WithTimeout(10*time.Second))
	assert.Equal(t, cpmodel.StatusOptimal, res.Status)
	return materialize(fabric, res, cfg)
}

func TestMondayOrFridayOffCountsWeeks(t *testing.T) {
	cfg := weekdayClinicConfig()
	both := []models.Session{models.Morning, models.Afternoon}

	t.Run("OnePerWeekAtMost", func(t *testing.T) {
		// First week works both edges; second week misses Monday and
		// Friday alike but still counts once.
		result := materializeWorked(t, cfg,
			models.NewDate(2026, time.January, 5),
			models.NewDate(2026, time.January, 16),
			map[models.Date][]models.Session{
				models.NewDate(2026, time.January, 5):  both,
				models.NewDate(2026, time.January, 9):  both,
				models.NewDate(2026, time.January, 13): both,
			})

		assert.Len(t, result.ProviderSummary, 1)
		assert.Equal(t, 1, result.ProviderSummary[0].MondayOrFridayOff)
	})

	t.Run("WeekWithoutFridayCounts", func(t *testing.T) {
		// The range ends on Wednesday, so the week has no Friday to work.
		result := materializeWorked(t, cfg,
			models.NewDate(2026, time.January, 5),
			models.NewDate(2026, time.January, 7),
			map[models.Date][]models.Session{
				models.NewDate(2026, time.January, 5): both,
			})

		assert.Len(t, result.ProviderSummary, 1)
		assert.Equal(t, 1, result.ProviderSummary[0].MondayOrFridayOff)
	})
}

func TestConsecutiveStreakResetsAfterAdminMorning(t *testing.T) {
	cfg := weekdayClinicConfig()
	both := []models.Session{models.Morning, models.Afternoon}

	// Monday morning through Thursday morning is one unbroken run of seven
	// sessions; the admin Thursday morning still belongs to it.
	start := models.NewDate(2026, time.January, 5)
	result := materializeWorked(t, cfg, start, models.NewDate(2026, time.January, 9),
		map[models.Date][]models.Session{
			start:            both,
			start.AddDays(1): both,
			start.AddDays(2): both,
			start.AddDays(3): {models.Morning},
		})

	assert.Len(t, result.ProviderSummary, 1)
	cell := result.ProviderSummary[0].Weeks[start.ISOWeekKey()]
	assert.Equal(t, 7, cell.Total)
	assert.Equal(t, 7, cell.Consecutive)
}
