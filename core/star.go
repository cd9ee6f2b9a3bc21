package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/huangsam/fitstar/schema"
)

// BuildDimUsers returns the distinct activity users in first-appearance order.
func BuildDimUsers(activity []schema.DailyActivity) []schema.DimUser {
	seen := make(map[int64]struct{}, len(activity))
	users := make([]schema.DimUser, 0)
	for _, row := range activity {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		users = append(users, schema.DimUser{UserID: row.UserID})
	}
	return users
}

// BuildDimTime returns one row per day from the earliest to the latest
// activity date, inclusive. An empty input yields an empty calendar.
func BuildDimTime(activity []schema.DailyActivity) []schema.DimTime {
	if len(activity) == 0 {
		return []schema.DimTime{}
	}

	first, last := activity[0].ActivityDate, activity[0].ActivityDate
	for _, row := range activity[1:] {
		if row.ActivityDate.Before(first) {
			first = row.ActivityDate
		}
		if row.ActivityDate.After(last) {
			last = row.ActivityDate
		}
	}

	days := last.DaysSince(first) + 1
	calendar := make([]schema.DimTime, 0, days)
	for i := range days {
		d := first.AddDays(i)
		calendar = append(calendar, schema.DimTime{
			Date:    d,
			Day:     d.Day,
			Month:   int(d.Month),
			Weekday: d.Weekday().String(),
		})
	}
	return calendar
}

// BuildFactActivity projects every cleaned activity row.
func BuildFactActivity(activity []schema.DailyActivity) []schema.FactActivity {
	facts := make([]schema.FactActivity, len(activity))
	for i, row := range activity {
		facts[i] = schema.FactActivity{
			UserID:               row.UserID,
			Date:                 row.ActivityDate,
			TotalSteps:           row.TotalSteps,
			TotalDistance:        row.TotalDistance,
			Calories:             row.Calories,
			VeryActiveMinutes:    row.VeryActiveMinutes,
			FairlyActiveMinutes:  row.FairlyActiveMinutes,
			LightlyActiveMinutes: row.LightlyActiveMinutes,
			SedentaryMinutes:     row.SedentaryMinutes,
		}
	}
	return facts
}

// hourKey identifies one user-hour bucket.
type hourKey struct {
	userID int64
	hour   time.Time
}

// running accumulates a sum and a count.
type running struct {
	sum   int64
	count int64
}

// BuildFactHeartRate averages heart-rate samples per user and clock hour.
// Samples are bucketed on their raw timestamp floored to the hour, so a
// reading at 23:59:59 belongs to 23:00 of the same day.
func BuildFactHeartRate(samples []schema.HeartRateSample) []schema.FactHeartRate {
	buckets := make(map[hourKey]*running)
	for _, s := range samples {
		key := hourKey{userID: s.UserID, hour: s.Timestamp.Truncate(time.Hour)}
		acc, ok := buckets[key]
		if !ok {
			acc = &running{}
			buckets[key] = acc
		}
		acc.sum += s.Value
		acc.count++
	}

	keys := make([]hourKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b hourKey) int {
		if c := cmp.Compare(a.userID, b.userID); c != 0 {
			return c
		}
		return a.hour.Compare(b.hour)
	})

	facts := make([]schema.FactHeartRate, len(keys))
	for i, key := range keys {
		acc := buckets[key]
		facts[i] = schema.FactHeartRate{
			UserID:       key.userID,
			Date:         schema.DateOf(key.hour),
			TimeOnly:     schema.TimeOfDayOf(key.hour),
			AvgHeartRate: float64(acc.sum) / float64(acc.count),
		}
	}
	return facts
}

// dayKey identifies one user-day bucket.
type dayKey struct {
	userID int64
	date   schema.Date
}

// BuildFactSleep sums sleep values per user and calendar date.
func BuildFactSleep(samples []schema.MinuteSleepSample) []schema.FactSleep {
	totals := make(map[dayKey]int64)
	for _, s := range samples {
		totals[dayKey{userID: s.UserID, date: s.Date}] += s.Value
	}

	keys := make([]dayKey, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b dayKey) int {
		if c := cmp.Compare(a.userID, b.userID); c != 0 {
			return c
		}
		return a.date.Time().Compare(b.date.Time())
	})

	facts := make([]schema.FactSleep, len(keys))
	for i, key := range keys {
		facts[i] = schema.FactSleep{
			UserID:            key.userID,
			Date:              key.date,
			TotalSleepMinutes: totals[key],
		}
	}
	return facts
}

// BuildFactWeight projects every weight entry, keeping missing values nil.
func BuildFactWeight(entries []schema.WeightLogEntry) []schema.FactWeight {
	facts := make([]schema.FactWeight, len(entries))
	for i, e := range entries {
		facts[i] = schema.FactWeight{
			UserID:   e.UserID,
			DateOnly: e.DateOnly,
			TimeOnly: e.TimeOnly,
			WeightKg: e.WeightKg,
			BMI:      e.BMI,
		}
	}
	return facts
}

// BuildStarSchema derives every dimension and fact table from cleaned data.
func BuildStarSchema(data *schema.CleanedData) *schema.StarSchema {
	return &schema.StarSchema{
		Users:     BuildDimUsers(data.Activity),
		Calendar:  BuildDimTime(data.Activity),
		Activity:  BuildFactActivity(data.Activity),
		HeartRate: BuildFactHeartRate(data.HeartRate),
		Sleep:     BuildFactSleep(data.Sleep),
		Weight:    BuildFactWeight(data.Weight),
	}
}
