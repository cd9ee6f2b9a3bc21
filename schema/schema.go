// Package schema has configs, models and global variables for all parts of fitstar.
package schema

import "time"

// DailyActivity is one cleaned row of the daily activity export.
// There is one record per user per day and no field is ever missing.
type DailyActivity struct {
	UserID               int64
	ActivityDate         Date
	TotalSteps           int64
	TotalDistance        float64
	Calories             int64
	VeryActiveMinutes    int64
	FairlyActiveMinutes  int64
	LightlyActiveMinutes int64
	SedentaryMinutes     int64
}

// HeartRateSample is one instantaneous heart-rate reading.
type HeartRateSample struct {
	UserID    int64
	Timestamp time.Time // Raw reading time, naive and stored as UTC
	Date      Date      // Calendar date of Timestamp
	TimeOnly  TimeOfDay // Time of day of Timestamp
	Value     int64     // Beats per minute
}

// MinuteSleepSample is the sleep-state code recorded for one minute.
type MinuteSleepSample struct {
	UserID    int64
	Timestamp time.Time
	Date      Date
	TimeOnly  TimeOfDay
	Value     int64 // Sleep-state code (1 = asleep, 2 = restless, 3 = awake)
}

// WeightLogEntry is one weight log row. Weight data is sparse, so every
// field is optional and preserved as nil when missing, the user id included.
type WeightLogEntry struct {
	UserID    *int64
	Timestamp *time.Time
	DateOnly  *Date
	TimeOnly  *TimeOfDay
	WeightKg  *float64
	BMI       *float64
}

// CleanedData holds the output of the cleaning pass for every metric.
type CleanedData struct {
	Activity  []DailyActivity
	HeartRate []HeartRateSample
	Sleep     []MinuteSleepSample
	Weight    []WeightLogEntry
}
