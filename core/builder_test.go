package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/fitstar/internal/cleaner"
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/store"
	"github.com/huangsam/fitstar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	activityCSVHeader  = "Id,ActivityDate,TotalSteps,TotalDistance,TrackerDistance,LoggedActivitiesDistance,VeryActiveDistance,ModeratelyActiveDistance,LightActiveDistance,SedentaryActiveDistance,VeryActiveMinutes,FairlyActiveMinutes,LightlyActiveMinutes,SedentaryMinutes,Calories\n"
	heartRateCSVHeader = "Id,Time,Value\n"
	sleepCSVHeader     = "Id,date,value,logId\n"
	weightCSVHeader    = "Id,Date,WeightKg,WeightPounds,Fat,BMI,IsManualReport,LogId\n"
)

// writeSource writes one collection period of export files into dir.
func writeSource(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

// fixtureSources writes two periods that both report user 1 on 2016-04-12.
func fixtureSources(t *testing.T) []string {
	t.Helper()
	root := t.TempDir()
	march := filepath.Join(root, "march")
	april := filepath.Join(root, "april")

	writeSource(t, march, map[string]string{
		contract.DefaultActivityFile: activityCSVHeader +
			"1,4/11/2016,800,0.5,0.5,0,0,0,0.5,0,0,0,100,1200,1700\n" +
			"1,4/12/2016,1000,0.7,0.7,0,0,0,0.7,0,1,2,3,4,1800\n",
		contract.DefaultHeartRateFile: heartRateCSVHeader +
			"7,4/12/2016 10:05:00 AM,70\n",
		contract.DefaultSleepFile: sleepCSVHeader +
			"1,4/12/2016 1:00:00 AM,1,11\n" +
			"1,4/12/2016 1:01:00 AM,2,11\n",
		contract.DefaultWeightFile: weightCSVHeader +
			"1,4/12/2016 11:59:59 PM,52.6,115.96,22,22.65,True,1460505599000\n",
	})
	writeSource(t, april, map[string]string{
		contract.DefaultActivityFile: activityCSVHeader +
			"1,4/12/2016,2000,1.4,1.4,0,0,0,1.4,0,5,6,7,8,1900\n" +
			"7,4/14/2016,500,0.3,0.3,0,0,0,0.3,0,0,0,10,1400,1500\n",
		contract.DefaultHeartRateFile: heartRateCSVHeader +
			"7,4/12/2016 10:40:00 AM,80\n" +
			"7,4/12/2016 11:00:00 AM,\n",
		contract.DefaultSleepFile: sleepCSVHeader +
			"1,4/12/2016 1:02:00 AM,1,12\n",
		contract.DefaultWeightFile: "Id,Date,WeightKg,WeightPounds,BMI,IsManualReport,LogId\n" +
			"7,5/2/2016,,,,True,1462147200000\n",
	})
	return []string{march, april}
}

func fixtureConfig(t *testing.T, sources []string, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Sources: sources,
		Files: map[schema.Metric]string{
			schema.ActivityMetric:  contract.DefaultActivityFile,
			schema.HeartRateMetric: contract.DefaultHeartRateFile,
			schema.SleepMetric:     contract.DefaultSleepFile,
			schema.WeightMetric:    contract.DefaultWeightFile,
		},
		OutputDir:        filepath.Join(t.TempDir(), "out"),
		Output:           output,
		RunsBackend:      schema.NoneBackend,
		WarehouseBackend: schema.NoneBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config, table schema.TableName) []string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputPath(table))
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestGetBuildResult_EndToEnd(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.CSVOut)

	result, err := GetBuildResult(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunKey)
	assert.Len(t, result.Files, len(schema.AllTables))
	assert.False(t, result.WarehouseLoaded)

	// Duplicate user-days across periods are both kept
	activity := readOutput(t, cfg, schema.FactActivityTable)
	assert.Equal(t, []string{
		"UserID,Date,TotalSteps,TotalDistance,Calories,VeryActiveMinutes,FairlyActiveMinutes,LightlyActiveMinutes,SedentaryMinutes",
		"1,2016-04-11,800,0.5,1700,0,0,100,1200",
		"1,2016-04-12,1000,0.7,1800,1,2,3,4",
		"1,2016-04-12,2000,1.4,1900,5,6,7,8",
		"7,2016-04-14,500,0.3,1500,0,0,10,1400",
	}, activity)

	assert.Equal(t, []string{"UserID", "1", "7"}, readOutput(t, cfg, schema.DimUsersTable))
	assert.Equal(t, []string{
		"Date,Day,Month,Weekday",
		"2016-04-11,11,4,Monday",
		"2016-04-12,12,4,Tuesday",
		"2016-04-13,13,4,Wednesday",
		"2016-04-14,14,4,Thursday",
	}, readOutput(t, cfg, schema.DimTimeTable))

	// Samples from both periods share one hourly bucket; the row with a missing value is dropped
	assert.Equal(t, []string{
		"UserID,Date,TimeOnly,AvgHeartRate",
		"7,2016-04-12,10:00:00,75.0",
	}, readOutput(t, cfg, schema.FactHeartRateTable))

	assert.Equal(t, []string{
		"UserID,Date,TotalSleepMinutes",
		"1,2016-04-12,4",
	}, readOutput(t, cfg, schema.FactSleepTable))

	assert.Equal(t, []string{
		"UserID,DateOnly,TimeOnly,WeightKg,BMI",
		"1,2016-04-12,23:59:59,52.6,22.65",
		"7,2016-05-02,00:00:00,,",
	}, readOutput(t, cfg, schema.FactWeightTable))

	assert.Equal(t, 2+4+4+1+1+2, result.TotalRows)
}

func TestExecuteBuild_Quiet(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.JSONOut)
	require.NoError(t, ExecuteBuild(WithQuiet(context.Background()), cfg, nil))

	_, err := os.Stat(cfg.OutputPath(schema.FactSleepTable))
	assert.NoError(t, err)
}

func TestGetBuildResult_MissingSource(t *testing.T) {
	sources := fixtureSources(t)
	cfg := fixtureConfig(t, append(sources, filepath.Join(t.TempDir(), "missing")), schema.CSVOut)

	_, err := GetBuildResult(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "activity")

	// Nothing is written when loading fails
	_, statErr := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGetBuildResult_ParseError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bad")
	writeSource(t, dir, map[string]string{
		contract.DefaultActivityFile:  activityCSVHeader + "1,2016-04-12,1000,0.7,0.7,0,0,0,0.7,0,1,2,3,4,1800\n",
		contract.DefaultHeartRateFile: heartRateCSVHeader,
		contract.DefaultSleepFile:     sleepCSVHeader,
		contract.DefaultWeightFile:    weightCSVHeader,
	})
	cfg := fixtureConfig(t, []string{dir}, schema.CSVOut)

	_, err := GetBuildResult(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cleaner.ErrParse)

	var parseErr *cleaner.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, schema.ActivityMetric, parseErr.Metric)
	assert.Equal(t, 1, parseErr.Row)
	assert.Equal(t, "ActivityDate", parseErr.Column)
}

func TestGetBuildResult_Cancelled(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.CSVOut)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetBuildResult(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetBuildResult_TracksRun(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.CSVOut)
	cfg.WarehouseBackend = schema.SQLiteBackend

	runStore := &store.MockRunStore{}
	runStore.On("BeginRun", mock.AnythingOfType("string"), mock.Anything, schema.CSVOut, mock.Anything).Return(int64(42), nil)
	runStore.On("RecordTableOutput", int64(42), mock.AnythingOfType("schema.OutputFile")).Return(nil).Times(len(schema.AllTables))
	runStore.On("EndRun", int64(42), mock.Anything, 14).Return(nil)

	warehouse := &store.MockWarehouse{}
	warehouse.On("Load", mock.Anything, mock.AnythingOfType("*schema.StarSchema")).Return(nil)

	mgr := &store.MockStoreManager{}
	mgr.On("GetRunStore").Return(runStore)
	mgr.On("GetWarehouse").Return(warehouse)

	result, err := GetBuildResult(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.True(t, result.WarehouseLoaded)

	runStore.AssertExpectations(t)
	warehouse.AssertExpectations(t)
}

func TestGetBuildResult_TrackingFailureIsNotFatal(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.CSVOut)

	runStore := &store.MockRunStore{}
	runStore.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db locked"))

	mgr := &store.MockStoreManager{}
	mgr.On("GetRunStore").Return(runStore)

	result, err := GetBuildResult(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Files, len(schema.AllTables))

	// No run was opened, so nothing else is recorded
	runStore.AssertNotCalled(t, "RecordTableOutput", mock.Anything, mock.Anything)
	runStore.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBuildResult_WarehouseFailure(t *testing.T) {
	cfg := fixtureConfig(t, fixtureSources(t), schema.CSVOut)
	cfg.WarehouseBackend = schema.PostgreSQLBackend

	warehouse := &store.MockWarehouse{}
	warehouse.On("Load", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	mgr := &store.MockStoreManager{}
	mgr.On("GetRunStore").Return(nil)
	mgr.On("GetWarehouse").Return(warehouse)

	_, err := GetBuildResult(context.Background(), cfg, mgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load warehouse")

	// Flat files are written before the warehouse load
	_, statErr := os.Stat(cfg.OutputPath(schema.DimUsersTable))
	assert.NoError(t, statErr)
}

func TestShouldBeQuiet(t *testing.T) {
	assert.False(t, shouldBeQuiet(context.Background()))
	assert.True(t, shouldBeQuiet(WithQuiet(context.Background())))
	assert.False(t, shouldBeQuiet(context.WithValue(context.Background(), quietKey, "yes")))
}
