// Package parser reads the department configuration and the CSV absence
// inputs. CSV files map columns by header name, skip '#' comment lines,
// and silently drop rows naming providers outside the roster so shared
// department-wide files can feed every department's run.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"clinic-roster/errors"
	"clinic-roster/metrics"
	"clinic-roster/models"
)

var validate = validator.New()

// LoadConfig reads and validates the department configuration YAML.
func LoadConfig(r io.Reader) (models.Config, error) {
	var cfg models.Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return models.Config{}, &errors.ConfigError{Key: "yaml", Err: err}
	}
	if err := validate.Struct(cfg); err != nil {
		return models.Config{}, &errors.ConfigError{Key: "validation", Err: err}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// header maps column names to their indices. Matching is case-insensitive.
type header map[string]int

func (h header) index(record []string, name string) (string, bool) {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

func readHeader(record []string) header {
	h := make(header, len(record))
	for i, col := range record {
		h[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return h
}

// forEachRecord walks the CSV rows, treating the first non-comment row as
// the header. Lines starting with '#' are comments.
func forEachRecord(r io.Reader, required []string, fn func(line int, h header, record []string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var h header
	lineNum := 0
	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if strings.HasPrefix(record[0], "#") {
			continue
		}
		if h == nil {
			h = readHeader(record)
			for _, name := range required {
				if _, ok := h[name]; !ok {
					metrics.ParserErrorsTotal.WithLabelValues("missing_column").Inc()
					return &errors.ParseError{
						Line:   lineNum,
						Record: record,
						Err:    fmt.Errorf("%w: %s", errors.ErrMissingColumn, name),
					}
				}
			}
			continue
		}
		if err := fn(lineNum, h, record); err != nil {
			return err
		}
	}
	return nil
}

func parseDateField(line int, h header, record []string, column string) (models.Date, error) {
	raw, ok := h.index(record, column)
	if !ok || raw == "" {
		metrics.ParserErrorsTotal.WithLabelValues("empty_record").Inc()
		return models.Date{}, &errors.ParseError{
			Line:   line,
			Record: record,
			Err:    errors.ErrEmptyRecord,
		}
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues("invalid_date").Inc()
		return models.Date{}, &errors.ParseError{
			Line:   line,
			Record: record,
			Err:    fmt.Errorf("%w: %v", errors.ErrInvalidDate, err),
		}
	}
	return d, nil
}

// ParseLeave reads leave days. Expected columns: provider, date.
func ParseLeave(r io.Reader, providers map[string]models.Provider) ([]models.LeaveRecord, error) {
	var out []models.LeaveRecord
	err := forEachRecord(r, []string{"provider", "date"}, func(line int, h header, record []string) error {
		name, _ := h.index(record, "provider")
		if _, ok := providers[name]; !ok {
			return nil
		}
		d, err := parseDateField(line, h, record, "date")
		if err != nil {
			return err
		}
		out = append(out, models.LeaveRecord{Provider: name, Date: d})
		metrics.ParserRecordsTotal.Inc()
		return nil
	})
	return out, err
}

// ParseRotations reads inpatient rotation starts. Expected columns:
// provider, start_date, and an optional inpatient_type.
func ParseRotations(r io.Reader, providers map[string]models.Provider) ([]models.Rotation, error) {
	var out []models.Rotation
	err := forEachRecord(r, []string{"provider", "start_date"}, func(line int, h header, record []string) error {
		name, _ := h.index(record, "provider")
		if _, ok := providers[name]; !ok {
			return nil
		}
		d, err := parseDateField(line, h, record, "start_date")
		if err != nil {
			return err
		}
		rotType, _ := h.index(record, "inpatient_type")
		out = append(out, models.Rotation{Provider: name, Start: d, Type: rotType})
		metrics.ParserRecordsTotal.Inc()
		return nil
	})
	return out, err
}

// ParseSibling reads a sibling department's solved schedule. Expected
// columns: date, session, providers; the providers cell is comma-joined.
func ParseSibling(r io.Reader) (*models.SiblingSchedule, error) {
	sched := &models.SiblingSchedule{}
	err := forEachRecord(r, []string{"date", "session", "providers"}, func(line int, h header, record []string) error {
		d, err := parseDateField(line, h, record, "date")
		if err != nil {
			return err
		}
		rawSession, _ := h.index(record, "session")
		session := models.Session(strings.ToLower(rawSession))
		if !session.IsClinic() && session != models.Call {
			metrics.ParserErrorsTotal.WithLabelValues("unknown_session").Inc()
			return &errors.ParseError{
				Line:   line,
				Record: record,
				Err:    fmt.Errorf("%w: %q", errors.ErrUnknownSession, rawSession),
			}
		}
		rawProviders, _ := h.index(record, "providers")
		var names []string
		for _, p := range strings.Split(rawProviders, ",") {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		sched.Rows = append(sched.Rows, models.SiblingRow{Date: d, Session: session, Providers: names})
		metrics.ParserRecordsTotal.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}
