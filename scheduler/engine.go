// Package scheduler builds the constraint model for a department's roster,
// drives the feasibility search over staffing thresholds, and materializes
// the winning assignment into schedule rows and summaries.
package scheduler

import (
	"time"

	"go.uber.org/zap"

	"clinic-roster/calendar"
	"clinic-roster/constraints"
	"clinic-roster/cpmodel"
	"clinic-roster/metrics"
	"clinic-roster/models"
)

// Engine generates rosters. The zero value is not usable; use NewEngine.
type Engine struct {
	log *zap.Logger
}

// NewEngine returns an engine logging through the given logger. A nil
// logger disables logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Request is one scheduling run: the department configuration, the date
// range, and the absence inputs.
type Request struct {
	Config    models.Config
	Start     models.Date
	End       models.Date
	Leaves    []models.LeaveRecord
	Rotations []models.Rotation
	Sibling   *models.SiblingSchedule

	// Search walks staffing thresholds down from InitialMinProviders until
	// one is feasible. When false, only InitialMinProviders is attempted.
	Search              bool
	InitialMinProviders int

	Seed        int64
	SolveBudget time.Duration
}

// Result is a materialized schedule plus its solve report. Schedule and the
// summaries are populated only when Report.Solved().
type Result struct {
	Schedule        []models.ScheduleRow
	WeekKeys        []models.WeekKey
	ProviderSummary []models.ProviderSummary
	CallWeeks       []models.Date
	CallSummary     []models.CallSummary
	Report          models.Report
}

// Generate runs the feasibility search and materializes the first feasible
// schedule. Thresholds descend one provider at a time; each attempt builds
// a fresh model so no tightened bound leaks between attempts.
func (e *Engine) Generate(req Request) (*Result, error) {
	metrics.ResetRosterGauges()

	cal, err := calendar.Build(req.Start, req.End, req.Config.ClinicRules)
	if err != nil {
		return nil, err
	}
	days := models.ExpandRotations(req.Rotations, req.Config.ClinicRules.InpatientSchedule.InpatientLength)

	e.log.Info("calendar built",
		zap.Stringer("start", req.Start),
		zap.Stringer("end", req.End),
		zap.Int("dates", cal.Len()),
		zap.Int("providers", len(req.Config.Providers)),
		zap.Int("rotation_days", len(days)),
	)

	thresholds := []int{req.InitialMinProviders}
	if req.Search {
		thresholds = thresholds[:0]
		for t := req.InitialMinProviders; t >= 0; t-- {
			thresholds = append(thresholds, t)
		}
	}

	report := models.Report{Outcome: models.OutcomeInfeasible}
	for _, threshold := range thresholds {
		model, fabric, hasObjective := e.buildModel(req, cal, days, threshold)
		metrics.ModelVariables.Observe(float64(model.NumVars()))

		res := cpmodel.Solve(model,
			cpmodel.WithTimeout(req.SolveBudget),
			cpmodel.WithSeed(req.Seed),
		)
		report.SolveTime += res.WallTime
		report.ThresholdsTried = append(report.ThresholdsTried, threshold)
		metrics.SolveAttemptsTotal.WithLabelValues(res.Status.String()).Inc()
		metrics.SolveDurationSeconds.Observe(res.WallTime.Seconds())

		e.log.Info("solve attempt finished",
			zap.Int("min_providers", threshold),
			zap.String("status", res.Status.String()),
			zap.Duration("wall_time", res.WallTime),
			zap.Int64("branches", res.Branches),
			zap.Int64("conflicts", res.Conflicts),
		)

		switch res.Status {
		case cpmodel.StatusOptimal, cpmodel.StatusFeasible:
			report.Outcome = models.Outcome(res.Status)
			report.ObjectiveValue = res.Objective
			report.HasObjective = hasObjective
			report.AttemptSolveTime = res.WallTime
			report.Branches = res.Branches
			report.Conflicts = res.Conflicts

			result := materialize(fabric, res, req.Config)
			result.Report = report
			result.Report.MinProvidersAchieved = achievedMinStaffing(fabric, res)

			metrics.ObjectiveValue.Set(float64(res.Objective))
			metrics.AchievedMinStaffing.Set(float64(result.Report.MinProvidersAchieved))
			metrics.ThresholdsTried.Set(float64(len(report.ThresholdsTried)))
			metrics.ScheduleRows.Set(float64(len(result.Schedule)))

			e.log.Info("schedule accepted",
				zap.Int("min_providers_achieved", result.Report.MinProvidersAchieved),
				zap.Int64("objective", res.Objective),
				zap.Int("rows", len(result.Schedule)),
			)
			return result, nil
		case cpmodel.StatusModelInvalid:
			// Retrying a broken model at a lower threshold cannot help.
			report.Outcome = models.OutcomeModelInvalid
			report.AttemptSolveTime = res.WallTime
			metrics.ThresholdsTried.Set(float64(len(report.ThresholdsTried)))
			return &Result{Report: report}, nil
		case cpmodel.StatusUnknown:
			report.Outcome = models.OutcomeUnknown
			report.AttemptSolveTime = res.WallTime
			report.Branches = res.Branches
			report.Conflicts = res.Conflicts
		default:
			report.Outcome = models.OutcomeInfeasible
			report.AttemptSolveTime = res.WallTime
			report.Branches = res.Branches
			report.Conflicts = res.Conflicts
		}
	}

	metrics.ThresholdsTried.Set(float64(len(report.ThresholdsTried)))
	e.log.Warn("no feasible schedule found",
		zap.String("outcome", string(report.Outcome)),
		zap.Ints("thresholds_tried", report.ThresholdsTried),
	)
	return &Result{Report: report}, nil
}

// buildModel assembles all constraint families for one staffing threshold.
// It returns whether any soft constraint contributed an objective.
func (e *Engine) buildModel(
	req Request,
	cal *calendar.Calendar,
	days []models.RotationDay,
	minProviders int,
) (*cpmodel.Model, *constraints.Fabric, bool) {
	rules := req.Config.ClinicRules
	model := cpmodel.NewModel()
	fabric := constraints.NewFabric(model, req.Config.Providers, cal)

	var penalties []cpmodel.Term

	constraints.AddLeaveBlocks(fabric, req.Leaves)
	constraints.AddInpatientBlocks(fabric, req.Rotations, days, rules, rules.HasCall())
	if rules.HasCall() {
		penalties = append(penalties, constraints.AddCallRules(fabric, req.Leaves, req.Rotations, rules)...)
		constraints.AddRollingCallCaps(fabric, rules)
		constraints.AddPostCallRest(fabric)
	}
	constraints.AddSiblingCoupling(fabric, req.Sibling)
	constraints.AddFridayOnly(fabric)
	penalties = append(penalties, constraints.AddClinicCountTargets(fabric, req.Rotations, req.Sibling, rules)...)
	penalties = append(penalties, constraints.AddFractureCoverage(fabric, rules)...)
	penalties = append(penalties, constraints.AddDayOffQuota(fabric, req.Leaves, days, req.Sibling, rules)...)
	constraints.AddStaffingBounds(fabric, minProviders, rules.Staffing.MaxProvidersPerSession)

	if len(penalties) > 0 {
		model.Minimize(penalties)
	}
	return model, fabric, len(penalties) > 0
}

// achievedMinStaffing is the realized staffing floor: the smallest provider
// count over all clinic sessions of the solved schedule.
func achievedMinStaffing(f *constraints.Fabric, res cpmodel.Result) int {
	achieved := -1
	for _, d := range f.Calendar().Dates() {
		for _, s := range f.Calendar().Sessions(d) {
			if !s.IsClinic() {
				continue
			}
			count := 0
			for _, name := range f.ProviderNames() {
				if v, ok := f.Var(name, d, s); ok && res.BoolValue(v) {
					count++
				}
			}
			if achieved < 0 || count < achieved {
				achieved = count
			}
		}
	}
	if achieved < 0 {
		return 0
	}
	return achieved
}
