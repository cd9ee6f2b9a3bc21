package schema

// DimUser is one row of the users dimension.
type DimUser struct {
	UserID int64 `json:"UserID"`
}

// DimTime is one calendar day of the time dimension.
type DimTime struct {
	Date    Date   `json:"Date"`
	Day     int    `json:"Day"`
	Month   int    `json:"Month"`
	Weekday string `json:"Weekday"`
}

// FactActivity is a 1:1 projection of a cleaned daily activity row.
type FactActivity struct {
	UserID               int64   `json:"UserID"`
	Date                 Date    `json:"Date"`
	TotalSteps           int64   `json:"TotalSteps"`
	TotalDistance        float64 `json:"TotalDistance"`
	Calories             int64   `json:"Calories"`
	VeryActiveMinutes    int64   `json:"VeryActiveMinutes"`
	FairlyActiveMinutes  int64   `json:"FairlyActiveMinutes"`
	LightlyActiveMinutes int64   `json:"LightlyActiveMinutes"`
	SedentaryMinutes     int64   `json:"SedentaryMinutes"`
}

// FactHeartRate is the mean heart rate of one user within one hour.
type FactHeartRate struct {
	UserID       int64     `json:"UserID"`
	Date         Date      `json:"Date"`
	TimeOnly     TimeOfDay `json:"TimeOnly"`
	AvgHeartRate float64   `json:"AvgHeartRate"`
}

// FactSleep is the total sleep value of one user on one day.
type FactSleep struct {
	UserID            int64 `json:"UserID"`
	Date              Date  `json:"Date"`
	TotalSleepMinutes int64 `json:"TotalSleepMinutes"`
}

// FactWeight is a 1:1 projection of a weight log row. Missing values stay nil.
type FactWeight struct {
	UserID   *int64     `json:"UserID"`
	DateOnly *Date      `json:"DateOnly"`
	TimeOnly *TimeOfDay `json:"TimeOnly"`
	WeightKg *float64   `json:"WeightKg"`
	BMI      *float64   `json:"BMI"`
}

// StarSchema bundles the dimension and fact tables of one build.
type StarSchema struct {
	Users     []DimUser
	Calendar  []DimTime
	Activity  []FactActivity
	HeartRate []FactHeartRate
	Sleep     []FactSleep
	Weight    []FactWeight
}

// RowCount returns the number of rows in the named table.
func (s StarSchema) RowCount(table TableName) int {
	switch table {
	case DimUsersTable:
		return len(s.Users)
	case DimTimeTable:
		return len(s.Calendar)
	case FactActivityTable:
		return len(s.Activity)
	case FactHeartRateTable:
		return len(s.HeartRate)
	case FactSleepTable:
		return len(s.Sleep)
	case FactWeightTable:
		return len(s.Weight)
	default:
		return 0
	}
}

// TotalRows returns the number of rows across all tables.
func (s StarSchema) TotalRows() int {
	total := 0
	for _, table := range AllTables {
		total += s.RowCount(table)
	}
	return total
}
