package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"clinic-roster/models"
	"clinic-roster/scheduler"
)

// ReportData holds prepared result data used by all formatters
type ReportData struct {
	Status          StatusInfo               `json:"status"`
	Schedule        []models.ScheduleRow     `json:"schedule,omitempty"`
	ProviderSummary []models.ProviderSummary `json:"provider_summary,omitempty"`
	CallSummary     []models.CallSummary     `json:"call_summary,omitempty"`
	weekKeys        []models.WeekKey
	callWeeks       []models.Date
}

// StatusInfo is the solve report section of the output
type StatusInfo struct {
	Outcome              models.Outcome `json:"outcome"`
	MinProvidersAchieved int            `json:"min_providers_achieved"`
	ObjectiveValue       *int64         `json:"objective_value,omitempty"`
	SolveTimeSeconds     float64        `json:"solve_time_seconds"`
	Branches             int64          `json:"branches"`
	Conflicts            int64          `json:"conflicts"`
	ThresholdsTried      []int          `json:"thresholds_tried"`
}

// prepareReportData extracts and organizes result data for formatting
func prepareReportData(result *scheduler.Result) *ReportData {
	status := StatusInfo{
		Outcome:              result.Report.Outcome,
		MinProvidersAchieved: result.Report.MinProvidersAchieved,
		SolveTimeSeconds:     result.Report.SolveTime.Seconds(),
		Branches:             result.Report.Branches,
		Conflicts:            result.Report.Conflicts,
		ThresholdsTried:      result.Report.ThresholdsTried,
	}
	if result.Report.HasObjective {
		obj := result.Report.ObjectiveValue
		status.ObjectiveValue = &obj
	}
	return &ReportData{
		Status:          status,
		Schedule:        result.Schedule,
		ProviderSummary: result.ProviderSummary,
		CallSummary:     result.CallSummary,
		weekKeys:        result.WeekKeys,
		callWeeks:       result.CallWeeks,
	}
}

// FormatText returns the text representation of a scheduling result
func FormatText(result *scheduler.Result) string {
	data := prepareReportData(result)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status: %s\n", data.Status.Outcome))
	sb.WriteString(fmt.Sprintf("Min providers achieved: %d\n", data.Status.MinProvidersAchieved))
	if data.Status.ObjectiveValue != nil {
		sb.WriteString(fmt.Sprintf("Objective: %d (%d soft violations)\n",
			*data.Status.ObjectiveValue, *data.Status.ObjectiveValue/100))
	}
	sb.WriteString(fmt.Sprintf("Solve time: %.3fs  Branches: %d  Conflicts: %d\n",
		data.Status.SolveTimeSeconds, data.Status.Branches, data.Status.Conflicts))
	sb.WriteString(fmt.Sprintf("Thresholds tried: %v\n", data.Status.ThresholdsTried))

	if len(data.Schedule) == 0 {
		return sb.String()
	}

	sb.WriteString("\nSchedule:\n")
	for _, row := range data.Schedule {
		// Call is always single-coverage, so the count column stays blank.
		count := strconv.Itoa(row.Count)
		if row.Session == models.Call {
			count = ""
		}
		sb.WriteString(fmt.Sprintf("%s  %-9s  %-9s  %-3s  %s\n",
			row.Date, row.DayOfWeek, row.Session, count, strings.Join(row.Providers, ", ")))
	}

	if len(data.ProviderSummary) > 0 {
		sb.WriteString("\nProvider summary (total, consecutive):\n")
		for _, ps := range data.ProviderSummary {
			sb.WriteString(fmt.Sprintf("%-12s", ps.Provider))
			for _, key := range data.weekKeys {
				cell := ps.Weeks[key]
				sb.WriteString(fmt.Sprintf("  %d,%d", cell.Total, cell.Consecutive))
			}
			sb.WriteString(fmt.Sprintf("  | total=%d am=%d pm=%d mon/fri off=%d\n",
				ps.TotalSessions, ps.TotalAM, ps.TotalPM, ps.MondayOrFridayOff))
		}
	}

	if len(data.CallSummary) > 0 {
		sb.WriteString("\nCall summary (per week starting Sunday):\n")
		for _, cs := range data.CallSummary {
			sb.WriteString(fmt.Sprintf("%-12s", cs.Provider))
			for _, ws := range data.callWeeks {
				sb.WriteString(fmt.Sprintf("  %d", cs.Weeks[ws]))
			}
			sb.WriteString(fmt.Sprintf("  | total=%d\n", cs.Total))
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of a scheduling result
func FormatJSON(result *scheduler.Result) string {
	data := prepareReportData(result)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the schedule rows
func FormatCSV(result *scheduler.Result) string {
	data := prepareReportData(result)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{"date", "day_of_week", "session", "count", "providers"})
	for _, row := range data.Schedule {
		count := strconv.Itoa(row.Count)
		if row.Session == models.Call {
			count = ""
		}
		writer.Write([]string{
			row.Date.String(),
			row.DayOfWeek,
			string(row.Session),
			count,
			strings.Join(row.Providers, ", "),
		})
	}
	writer.Flush()
	return sb.String()
}
