package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-roster/models"
)

func TestApplyDefaults(t *testing.T) {
	cfg := models.Config{
		Providers: map[string]models.Provider{
			"carter": {Role: "MD", MaxClinicsPerWeek: 4},
		},
	}
	cfg.ApplyDefaults()

	r := cfg.ClinicRules
	assert.Equal(t, "Monday", r.WeekStart)
	assert.Equal(t, time.Monday, r.WeekStartDay())
	assert.Equal(t, "Thursday", r.AdminMorningDay)
	assert.Equal(t, "Wednesday", r.FractureClinicDay)
	assert.Equal(t, 7, r.InpatientSchedule.InpatientLength)
	assert.Equal(t, 10, r.InpatientSchedule.PostReliefOffsetDays)
	assert.Equal(t, 10, r.ClinicCount.ShortfallBound)
	assert.Equal(t, "Tuesday", r.CallRules.FractureBlockedDay)
	assert.Equal(t, 28, r.CallRules.RollingWindowDays)
	assert.Equal(t, []int{-2, -1, 0, 1, 2, 5, 6, 8, 9}, r.CallRules.PedsBlockOffsets)
	assert.Equal(t, []int{3, 4}, r.CallRules.PinnedOffsets)

	// Providers pick up their map key as name.
	assert.Equal(t, "carter", cfg.Providers["carter"].Name)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := models.Config{
		Providers: map[string]models.Provider{"carter": {Role: "MD"}},
		ClinicRules: models.ClinicRules{
			WeekStart: "Sunday",
			InpatientSchedule: models.InpatientSchedule{
				InpatientLength:      14,
				PostReliefOffsetDays: 12,
			},
		},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, time.Sunday, cfg.ClinicRules.WeekStartDay())
	assert.Equal(t, 14, cfg.ClinicRules.InpatientSchedule.InpatientLength)
	assert.Equal(t, 12, cfg.ClinicRules.InpatientSchedule.PostReliefOffsetDays)
}

func TestProviderRDOBehavior(t *testing.T) {
	no := false
	tests := map[string]struct {
		provider      models.Provider
		wantsRDO      bool
		holidayBlocks bool
	}{
		"MDDefaults":     {provider: models.Provider{Role: "MD"}, wantsRDO: true, holidayBlocks: true},
		"DODefaults":     {provider: models.Provider{Role: "DO"}, wantsRDO: true, holidayBlocks: true},
		"NPKeepsHoliday": {provider: models.Provider{Role: "NP"}, wantsRDO: true, holidayBlocks: false},
		"OptedOut":       {provider: models.Provider{Role: "MD", NeedsRDO: &no}, wantsRDO: false, holidayBlocks: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantsRDO, tc.provider.WantsRDO())
			assert.Equal(t, tc.holidayBlocks, tc.provider.HolidayWeekBlocksRDO())
		})
	}
}

func TestBlockOffsetsFor(t *testing.T) {
	var cfg models.Config
	cfg.Providers = map[string]models.Provider{"x": {Role: "MD"}}
	cfg.ApplyDefaults()

	rules := cfg.ClinicRules.CallRules
	assert.Equal(t, rules.PedsBlockOffsets, rules.BlockOffsetsFor("peds"))
	assert.Equal(t, rules.DefaultBlockOffsets, rules.BlockOffsetsFor(""))
	assert.Equal(t, rules.DefaultBlockOffsets, rules.BlockOffsetsFor("im"))
}
