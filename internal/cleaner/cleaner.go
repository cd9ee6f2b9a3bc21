// Package cleaner turns raw export tables into typed, cleaned metric records.
//
// Activity, heart-rate and sleep rows with any missing cell are dropped.
// Weight rows are never dropped; missing measurements are kept as nil.
package cleaner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fitstar/internal/loader"
	"github.com/huangsam/fitstar/schema"
)

// ParseDate parses an M/D/YYYY cell.
func ParseDate(s string) (schema.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return schema.Date{}, err
	}
	return schema.DateOf(t), nil
}

// ParseDateTime parses an M/D/YYYY h:mm:ss AM/PM cell as a naive UTC time.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, strings.TrimSpace(s))
}

// parseWeightTimestamp accepts the combined layout and falls back to a bare date.
func parseWeightTimestamp(s string) (time.Time, error) {
	t, err := ParseDateTime(s)
	if err == nil {
		return t, nil
	}
	if d, dateErr := time.Parse(DateLayout, strings.TrimSpace(s)); dateErr == nil {
		return d, nil
	}
	return time.Time{}, err
}

// parseInt accepts plain integers and integral floats such as "1000.0".
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int64(f), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// rowParser collects the first parse failure of a row.
type rowParser struct {
	metric schema.Metric
	header []string
	row    []string
	line   int
	err    error
}

func (p *rowParser) fail(idx int, err error) {
	if p.err == nil {
		p.err = &ParseError{Metric: p.metric, Row: p.line, Column: p.header[idx], Value: p.row[idx], Err: err}
	}
}

func (p *rowParser) intAt(idx int) int64 {
	v, err := parseInt(p.row[idx])
	if err != nil {
		p.fail(idx, err)
	}
	return v
}

func (p *rowParser) floatAt(idx int) float64 {
	v, err := parseFloat(p.row[idx])
	if err != nil {
		p.fail(idx, err)
	}
	return v
}

func (p *rowParser) optionalIntAt(idx int) *int64 {
	if loader.IsMissing(p.row[idx]) {
		return nil
	}
	v := p.intAt(idx)
	return &v
}

func (p *rowParser) optionalFloatAt(idx int) *float64 {
	if loader.IsMissing(p.row[idx]) {
		return nil
	}
	v := p.floatAt(idx)
	return &v
}

func (p *rowParser) dateTimeAt(idx int) time.Time {
	v, err := ParseDateTime(p.row[idx])
	if err != nil {
		p.fail(idx, err)
	}
	return v
}

func newRowParser(metric schema.Metric, table loader.Table, r int) *rowParser {
	return &rowParser{metric: metric, header: table.Header, row: table.Rows[r], line: r + 1}
}

// resolve checks the required columns of a metric and returns their positions.
func resolve(metric schema.Metric, table loader.Table) ([]int, error) {
	idx, err := table.Indexes(RequiredColumns[metric]...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metric, err)
	}
	return idx, nil
}

// checkDate validates a present date cell before the missing-value filter runs,
// so a malformed date aborts the run even when another cell is missing.
func checkDate(metric schema.Metric, table loader.Table, r, col int, parse func(string) error) error {
	cell := table.Rows[r][col]
	if loader.IsMissing(cell) {
		return nil
	}
	if err := parse(cell); err != nil {
		return &ParseError{Metric: metric, Row: r + 1, Column: table.Header[col], Value: cell, Err: err}
	}
	return nil
}

// CleanActivity parses ActivityDate and drops rows with any missing cell.
func CleanActivity(table loader.Table) ([]schema.DailyActivity, error) {
	idx, err := resolve(schema.ActivityMetric, table)
	if err != nil {
		return nil, err
	}
	parseDate := func(s string) error { _, err := ParseDate(s); return err }

	out := make([]schema.DailyActivity, 0, table.Len())
	for r, row := range table.Rows {
		if err := checkDate(schema.ActivityMetric, table, r, idx[1], parseDate); err != nil {
			return nil, err
		}
		if loader.RowHasMissing(row) {
			continue
		}
		p := newRowParser(schema.ActivityMetric, table, r)
		date, _ := ParseDate(row[idx[1]])
		rec := schema.DailyActivity{
			UserID:               p.intAt(idx[0]),
			ActivityDate:         date,
			TotalSteps:           p.intAt(idx[2]),
			TotalDistance:        p.floatAt(idx[3]),
			Calories:             p.intAt(idx[4]),
			VeryActiveMinutes:    p.intAt(idx[5]),
			FairlyActiveMinutes:  p.intAt(idx[6]),
			LightlyActiveMinutes: p.intAt(idx[7]),
			SedentaryMinutes:     p.intAt(idx[8]),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// CleanHeartRate parses Time, derives Date and TimeOnly, and drops rows with
// any missing cell.
func CleanHeartRate(table loader.Table) ([]schema.HeartRateSample, error) {
	idx, err := resolve(schema.HeartRateMetric, table)
	if err != nil {
		return nil, err
	}
	return cleanSamples(schema.HeartRateMetric, table, idx)
}

// CleanSleep parses date, derives Date and TimeOnly, and drops rows with any
// missing cell.
func CleanSleep(table loader.Table) ([]schema.MinuteSleepSample, error) {
	idx, err := resolve(schema.SleepMetric, table)
	if err != nil {
		return nil, err
	}
	samples, err := cleanSamples(schema.SleepMetric, table, idx)
	if err != nil {
		return nil, err
	}
	out := make([]schema.MinuteSleepSample, len(samples))
	for i, s := range samples {
		out[i] = schema.MinuteSleepSample(s)
	}
	return out, nil
}

// cleanSamples handles the shared (Id, timestamp, value) layout of heart-rate
// and sleep files. idx holds the positions of those three columns.
func cleanSamples(metric schema.Metric, table loader.Table, idx []int) ([]schema.HeartRateSample, error) {
	parseStamp := func(s string) error { _, err := ParseDateTime(s); return err }

	out := make([]schema.HeartRateSample, 0, table.Len())
	for r, row := range table.Rows {
		if err := checkDate(metric, table, r, idx[1], parseStamp); err != nil {
			return nil, err
		}
		if loader.RowHasMissing(row) {
			continue
		}
		p := newRowParser(metric, table, r)
		ts := p.dateTimeAt(idx[1])
		rec := schema.HeartRateSample{
			UserID:    p.intAt(idx[0]),
			Timestamp: ts,
			Date:      schema.DateOf(ts),
			TimeOnly:  schema.TimeOfDayOf(ts),
			Value:     p.intAt(idx[2]),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// CleanWeight parses Date, derives DateOnly and TimeOnly, and removes the Fat
// column. Rows are never dropped.
func CleanWeight(table loader.Table) ([]schema.WeightLogEntry, error) {
	table = table.DropColumns(ColFat)
	idx, err := resolve(schema.WeightMetric, table)
	if err != nil {
		return nil, err
	}

	out := make([]schema.WeightLogEntry, 0, table.Len())
	for r, row := range table.Rows {
		p := newRowParser(schema.WeightMetric, table, r)
		rec := schema.WeightLogEntry{
			UserID:   p.optionalIntAt(idx[0]),
			WeightKg: p.optionalFloatAt(idx[2]),
			BMI:      p.optionalFloatAt(idx[3]),
		}
		if cell := row[idx[1]]; !loader.IsMissing(cell) {
			ts, err := parseWeightTimestamp(cell)
			if err != nil {
				p.fail(idx[1], err)
			} else {
				date := schema.DateOf(ts)
				tod := schema.TimeOfDayOf(ts)
				rec.Timestamp = &ts
				rec.DateOnly = &date
				rec.TimeOnly = &tod
			}
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Clean runs every cleaning rule over the loaded tables.
func Clean(tables map[schema.Metric]loader.Table) (*schema.CleanedData, error) {
	activity, err := CleanActivity(tables[schema.ActivityMetric])
	if err != nil {
		return nil, err
	}
	heartRate, err := CleanHeartRate(tables[schema.HeartRateMetric])
	if err != nil {
		return nil, err
	}
	sleep, err := CleanSleep(tables[schema.SleepMetric])
	if err != nil {
		return nil, err
	}
	weight, err := CleanWeight(tables[schema.WeightMetric])
	if err != nil {
		return nil, err
	}
	return &schema.CleanedData{
		Activity:  activity,
		HeartRate: heartRate,
		Sleep:     sleep,
		Weight:    weight,
	}, nil
}
