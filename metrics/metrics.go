// Package metrics provides Prometheus observability metrics for the roster
// generator. Solve outcomes and parse health are the signals on-call cares
// about when a department's roster fails to generate overnight.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// SolveAttemptsTotal counts solve attempts across the feasibility search,
// labeled by terminal status.
var SolveAttemptsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "roster",
	Name:      "solve_attempts_total",
	Help:      "Solve attempts by terminal solver status",
}, []string{"status"})

// SolveDurationSeconds tracks wall time per solve attempt.
var SolveDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "roster",
	Name:      "solve_duration_seconds",
	Help:      "Wall time per solve attempt",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
})

// ObjectiveValue tracks the objective of the accepted solution. Each unit
// of 100 is one soft-constraint violation.
var ObjectiveValue = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "objective_value",
	Help:      "Objective value of the accepted solution",
})

// AchievedMinStaffing tracks the staffing floor the search settled on.
var AchievedMinStaffing = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "achieved_min_staffing",
	Help:      "Minimum providers per session achieved by the feasibility search",
})

// ThresholdsTried tracks how many staffing thresholds a run walked through
// before finding a feasible one.
var ThresholdsTried = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "thresholds_tried",
	Help:      "Number of staffing thresholds attempted in the feasibility search",
})

// ScheduleRows tracks the size of the materialized schedule.
var ScheduleRows = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "schedule_rows",
	Help:      "Rows in the materialized schedule",
})

// ModelVariables tracks the size of the constraint model per attempt.
var ModelVariables = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "roster",
	Name:      "model_variables",
	Help:      "Variables in the constraint model per solve attempt",
	Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV records successfully parsed",
})

// ResetRosterGauges resets the per-run gauges before a new scheduling run.
func ResetRosterGauges() {
	ObjectiveValue.Set(0)
	AchievedMinStaffing.Set(0)
	ThresholdsTried.Set(0)
	ScheduleRows.Set(0)
}
