//go:build basic || database

// Package integration contains integration tests for fitstar.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database tests need Docker: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedFitstarPath holds the path to a shared fitstar binary built once for all tests.
	sharedFitstarPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFitstarBinary returns the path to the fitstar binary, building it once if needed.
func getFitstarBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "fitstar-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		fitstarPath := filepath.Join(tempDir, "fitstar")
		buildCmd := exec.Command("go", "build", "-o", fitstarPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build fitstar: %v", err))
		}

		sharedFitstarPath = fitstarPath
	})

	return sharedFitstarPath
}

// writeExportSources writes two collection periods of export files under root
// and returns them as a --source value.
func writeExportSources(t *testing.T, root string) string {
	t.Helper()

	periods := map[string]map[string]string{
		"march": {
			"dailyActivity_merged.csv": "Id,ActivityDate,TotalSteps,TotalDistance,VeryActiveMinutes,FairlyActiveMinutes,LightlyActiveMinutes,SedentaryMinutes,Calories\n" +
				"1,4/11/2016,800,0.5,0,0,100,1200,1700\n" +
				"1,4/12/2016,1000,0.7,1,2,3,4,1800\n",
			"heartrate_seconds_merged.csv": "Id,Time,Value\n" +
				"7,4/12/2016 10:05:00 AM,70\n",
			"minuteSleep_merged.csv": "Id,date,value,logId\n" +
				"1,4/12/2016 1:00:00 AM,1,11\n" +
				"1,4/12/2016 1:01:00 AM,2,11\n",
			"weightLogInfo_merged.csv": "Id,Date,WeightKg,WeightPounds,Fat,BMI,IsManualReport,LogId\n" +
				"1,4/12/2016 11:59:59 PM,52.6,115.96,22,22.65,True,1460505599000\n",
		},
		"april": {
			"dailyActivity_merged.csv": "Id,ActivityDate,TotalSteps,TotalDistance,VeryActiveMinutes,FairlyActiveMinutes,LightlyActiveMinutes,SedentaryMinutes,Calories\n" +
				"1,4/12/2016,2000,1.4,5,6,7,8,1900\n",
			"heartrate_seconds_merged.csv": "Id,Time,Value\n" +
				"7,4/12/2016 10:40:00 AM,80\n",
			"minuteSleep_merged.csv": "Id,date,value,logId\n" +
				"1,4/13/2016 1:02:00 AM,1,12\n",
			"weightLogInfo_merged.csv": "Id,Date,WeightKg,WeightPounds,Fat,BMI,IsManualReport,LogId\n" +
				"7,5/2/2016 12:00:00 AM,,,,,True,1462147200000\n",
		},
	}

	dirs := make([]string, 0, len(periods))
	for _, name := range []string{"march", "april"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for file, content := range periods[name] {
			require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
		}
		dirs = append(dirs, dir)
	}
	return dirs[0] + "," + dirs[1]
}

// runFitstar runs the shared binary in dir with extra environment variables
// and returns its combined output.
func runFitstar(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFitstarBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
