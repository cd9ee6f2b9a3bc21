package cleaner

import "github.com/huangsam/fitstar/schema"

// Source column names as they appear in the export files.
const (
	ColID                   = "Id"
	ColActivityDate         = "ActivityDate"
	ColTotalSteps           = "TotalSteps"
	ColTotalDistance        = "TotalDistance"
	ColCalories             = "Calories"
	ColVeryActiveMinutes    = "VeryActiveMinutes"
	ColFairlyActiveMinutes  = "FairlyActiveMinutes"
	ColLightlyActiveMinutes = "LightlyActiveMinutes"
	ColSedentaryMinutes     = "SedentaryMinutes"
	ColHeartRateTime        = "Time"
	ColHeartRateValue       = "Value"
	ColSleepDate            = "date"
	ColSleepValue           = "value"
	ColWeightDate           = "Date"
	ColWeightKg             = "WeightKg"
	ColBMI                  = "BMI"
	ColFat                  = "Fat"
)

// Timestamp layouts used by the export files.
const (
	DateLayout     = "1/2/2006"
	DateTimeLayout = "1/2/2006 3:04:05 PM"
)

// RequiredColumns lists the columns each metric file must carry.
var RequiredColumns = map[schema.Metric][]string{
	schema.ActivityMetric: {
		ColID, ColActivityDate, ColTotalSteps, ColTotalDistance, ColCalories,
		ColVeryActiveMinutes, ColFairlyActiveMinutes, ColLightlyActiveMinutes, ColSedentaryMinutes,
	},
	schema.HeartRateMetric: {ColID, ColHeartRateTime, ColHeartRateValue},
	schema.SleepMetric:     {ColID, ColSleepDate, ColSleepValue},
	schema.WeightMetric:    {ColID, ColWeightDate, ColWeightKg, ColBMI},
}
