package parser_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "clinic-roster/errors"
	"clinic-roster/models"
	"clinic-roster/parser"
)

const validConfig = `
providers:
  carter:
    role: MD
    max_clinics_per_week: 4
    rdo_preference: Friday
    max_calls_per_month: 5
  nguyen:
    role: NP
    max_clinics_per_week: 6
    needs_rdo: false
clinic_rules:
  clinic_days: [Monday, Tuesday, Wednesday, Thursday]
  clinic_sessions:
    Monday: [morning, afternoon]
    Tuesday: [morning, afternoon]
    Wednesday: [morning, afternoon]
    Thursday: [morning, afternoon]
  call_days: [Monday, Tuesday]
  week_start: Monday
  staffing:
    min_providers_per_session: 2
    max_providers_per_session: 4
`

func TestLoadConfig(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg, err := parser.LoadConfig(strings.NewReader(validConfig))
		assert.NoError(t, err)
		assert.Len(t, cfg.Providers, 2)

		carter := cfg.Providers["carter"]
		assert.Equal(t, "carter", carter.Name)
		assert.Equal(t, "MD", carter.Role)
		assert.Equal(t, "Friday", carter.RDOPreference)
		assert.True(t, carter.WantsRDO())
		assert.False(t, cfg.Providers["nguyen"].WantsRDO())

		// Defaults filled in behind the explicit fields.
		assert.Equal(t, 28, cfg.ClinicRules.CallRules.RollingWindowDays)
		assert.Equal(t, 4, cfg.ClinicRules.Staffing.MaxProvidersPerSession)
		assert.True(t, cfg.ClinicRules.HasCall())
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := parser.LoadConfig(strings.NewReader("providers: ["))
		var cfgErr *apperrors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := parser.LoadConfig(strings.NewReader("providerz: {}"))
		assert.Error(t, err)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		bad := strings.Replace(validConfig, "role: MD", "role: ZZ", 1)
		_, err := parser.LoadConfig(strings.NewReader(bad))
		var cfgErr *apperrors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("NoProviders", func(t *testing.T) {
		_, err := parser.LoadConfig(strings.NewReader("providers: {}\nclinic_rules:\n  clinic_days: [Monday]\n  clinic_sessions:\n    Monday: [morning]\n"))
		assert.Error(t, err)
	})
}

func testProviders() map[string]models.Provider {
	return map[string]models.Provider{
		"carter": {Name: "carter", Role: "MD"},
		"nguyen": {Name: "nguyen", Role: "NP"},
	}
}

func TestParseLeave(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected int
		wantErr  error
	}{
		"Valid": {
			input:    "provider,date\ncarter,2026-01-05\nnguyen,2026-01-06\n",
			expected: 2,
		},
		"CommentsSkipped": {
			input:    "# leave days for january\nprovider,date\n# mid-file note\ncarter,2026-01-05\n",
			expected: 1,
		},
		"UnknownProviderDropped": {
			input:    "provider,date\nghost,2026-01-05\ncarter,2026-01-06\n",
			expected: 1,
		},
		"MissingColumn": {
			input:   "provider,when\ncarter,2026-01-05\n",
			wantErr: apperrors.ErrMissingColumn,
		},
		"BadDate": {
			input:   "provider,date\ncarter,01/05/2026\n",
			wantErr: apperrors.ErrInvalidDate,
		},
		"EmptyDate": {
			input:   "provider,date\ncarter,\n",
			wantErr: apperrors.ErrEmptyRecord,
		},
		"EmptyFile": {
			input:    "",
			expected: 0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := parser.ParseLeave(strings.NewReader(tc.input), testProviders())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				var parseErr *apperrors.ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, records, tc.expected)
		})
	}
}

func TestParseRotations(t *testing.T) {
	input := "provider,start_date,inpatient_type\ncarter,2026-01-05,peds\nnguyen,2026-02-02,\n"
	rotations, err := parser.ParseRotations(strings.NewReader(input), testProviders())
	assert.NoError(t, err)
	assert.Len(t, rotations, 2)
	assert.Equal(t, "peds", rotations[0].Type)
	assert.Equal(t, models.NewDate(2026, time.January, 5), rotations[0].Start)
	assert.Equal(t, "", rotations[1].Type)
}

func TestParseRotationsTypeColumnOptional(t *testing.T) {
	input := "provider,start_date\ncarter,2026-01-05\n"
	rotations, err := parser.ParseRotations(strings.NewReader(input), testProviders())
	assert.NoError(t, err)
	assert.Len(t, rotations, 1)
	assert.Equal(t, "", rotations[0].Type)
}

func TestParseSibling(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		input := "date,session,providers\n2026-01-05,morning,\"carter, nguyen\"\n2026-01-05,call,carter\n"
		sched, err := parser.ParseSibling(strings.NewReader(input))
		assert.NoError(t, err)
		assert.Len(t, sched.Rows, 2)
		assert.Equal(t, []string{"carter", "nguyen"}, sched.Rows[0].Providers)
		assert.Equal(t, models.Call, sched.Rows[1].Session)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		input := "date,session,providers\n2026-01-05,evening,carter\n"
		_, err := parser.ParseSibling(strings.NewReader(input))
		assert.ErrorIs(t, err, apperrors.ErrUnknownSession)
	})

	t.Run("SessionCaseInsensitive", func(t *testing.T) {
		input := "date,session,providers\n2026-01-05,Morning,carter\n"
		sched, err := parser.ParseSibling(strings.NewReader(input))
		assert.NoError(t, err)
		assert.Equal(t, models.Morning, sched.Rows[0].Session)
	})
}
