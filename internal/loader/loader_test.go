package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIsMissing(t *testing.T) {
	tests := []struct {
		cell     string
		expected bool
	}{
		{"", true},
		{"#N/A", true},
		{"#N/A N/A", true},
		{"#NA", true},
		{"-1.#IND", true},
		{"-1.#QNAN", true},
		{"-NaN", true},
		{"-nan", true},
		{"1.#IND", true},
		{"1.#QNAN", true},
		{"<NA>", true},
		{"N/A", true},
		{"NA", true},
		{"NULL", true},
		{"NaN", true},
		{"None", true},
		{"n/a", true},
		{"nan", true},
		{"null", true},
		{" ", false},
		{"   ", false},
		{" NA", false},
		{"NA ", false},
		{"0", false},
		{"none", false},
		{"Nan", false},
		{"NA/N", false},
		{"4/12/2016", false},
	}

	for _, tt := range tests {
		t.Run("cell="+tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMissing(tt.cell))
		})
	}
}

func TestReadTable(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("Id,Value\n1,70\n2,80\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Id", "Value"}, table.Header)
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"2", "80"}, table.Rows[1])
	})

	t.Run("bom is stripped", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("\ufeffId,Value\n1,70\n"))
		require.NoError(t, err)
		assert.True(t, table.HasColumn("Id"))
	})

	t.Run("short rows are padded", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("Id,Value,Fat\n1,70\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "70", ""}, table.Rows[0])
	})

	t.Run("wide rows are rejected", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("Id,Value\n1,70,3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader(""))
		require.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("Id,Value\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTableIndexes(t *testing.T) {
	table := Table{Header: []string{"Id", "Time", "Value"}}

	idx, err := table.Indexes("Value", "Id")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, idx)

	_, err = table.Indexes("Id", "Calories")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Calories")
}

func TestDropColumns(t *testing.T) {
	table := Table{
		Header: []string{"Id", "WeightKg", "Fat", "BMI"},
		Rows:   [][]string{{"1", "60.5", "22", "21.1"}},
	}

	dropped := table.DropColumns("Fat")
	assert.Equal(t, []string{"Id", "WeightKg", "BMI"}, dropped.Header)
	assert.Equal(t, []string{"1", "60.5", "21.1"}, dropped.Rows[0])

	// Source is untouched.
	assert.Len(t, table.Header, 4)
	assert.Len(t, table.Rows[0], 4)

	again := dropped.DropColumns("Fat")
	assert.Equal(t, dropped, again)
}

func TestRowHasMissing(t *testing.T) {
	assert.False(t, RowHasMissing([]string{"1", "2"}))
	assert.True(t, RowHasMissing([]string{"1", "NA"}))
	assert.True(t, RowHasMissing([]string{"", "2"}))
}

func TestConcat(t *testing.T) {
	first := Table{Header: []string{"Id", "Fat"}, Rows: [][]string{{"1", "10"}, {"2", "11"}}}
	second := Table{Header: []string{"Id"}, Rows: [][]string{{"3"}}}
	third := Table{Header: []string{"Id", "BMI"}, Rows: [][]string{{"4", "20.5"}}}

	out := Concat(first, second, third)
	assert.Equal(t, []string{"Id", "Fat", "BMI"}, out.Header)
	assert.Equal(t, first.Len()+second.Len()+third.Len(), out.Len())
	assert.Equal(t, [][]string{
		{"1", "10", ""},
		{"2", "11", ""},
		{"3", "", ""},
		{"4", "", "20.5"},
	}, out.Rows)
}

func TestLoadAndConcat(t *testing.T) {
	root := t.TempDir()
	march := filepath.Join(root, "march")
	april := filepath.Join(root, "april")
	writeFile(t, march, "dailyActivity_merged.csv", "Id,ActivityDate,TotalSteps\n1,4/12/2016,1000\n")
	writeFile(t, april, "dailyActivity_merged.csv", "Id,ActivityDate,TotalSteps\n1,4/12/2016,2000\n2,4/13/2016,50\n")

	t.Run("order preserving and additive", func(t *testing.T) {
		table, err := LoadAndConcat([]string{march, april}, "dailyActivity_merged.csv")
		require.NoError(t, err)
		require.Equal(t, 3, table.Len())
		assert.Equal(t, "1000", table.Rows[0][2])
		assert.Equal(t, "2000", table.Rows[1][2])
		assert.Equal(t, "50", table.Rows[2][2])
	})

	t.Run("missing file in one source", func(t *testing.T) {
		_, err := LoadAndConcat([]string{march, april}, "weightLogInfo_merged.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weightLogInfo_merged.csv")
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := LoadAndConcat(nil, "dailyActivity_merged.csv")
		require.Error(t, err)
	})
}
