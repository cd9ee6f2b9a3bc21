package store

import (
	"testing"
	"time"

	"github.com/huangsam/fitstar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"runs table", runsTable, false},
		{"leading underscore", "_fact", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"injection", "dim_users; DROP TABLE x", true},
		{"dash", "fact-sleep", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`fact_sleep`", quoteTableName("fact_sleep", schema.MySQLBackend))
	assert.Equal(t, `"fact_sleep"`, quoteTableName("fact_sleep", schema.PostgreSQLBackend))
	assert.Equal(t, `"fact_sleep"`, quoteTableName("fact_sleep", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3, $4", placeholders(schema.PostgreSQLBackend, 4))
	assert.Equal(t, "", placeholders(schema.SQLiteBackend, 0))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/fitstar")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "/fitstar")

	_, err = normalizeMySQLDSN("not a dsn")
	assert.Error(t, err)
}

func TestOpenDB_UnsupportedBackend(t *testing.T) {
	_, err := openDB(schema.DatabaseBackend("oracle"), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestScanTime(t *testing.T) {
	ts := time.Date(2016, 4, 12, 10, 5, 0, 123, time.UTC)

	st := &scanTime{backend: schema.SQLiteBackend}
	st.text.Valid = true
	st.text.String = formatTime(ts, schema.SQLiteBackend).(string)
	got, err := st.value()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, ts.Equal(*got))

	null := &scanTime{backend: schema.SQLiteBackend}
	got, err = null.value()
	require.NoError(t, err)
	assert.Nil(t, got)

	native := &scanTime{backend: schema.PostgreSQLBackend}
	native.native.Valid = true
	native.native.Time = ts
	got, err = native.value()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ts, *got)
	assert.Equal(t, ts, formatTime(ts, schema.MySQLBackend))

	bad := &scanTime{backend: schema.SQLiteBackend}
	bad.text.Valid = true
	bad.text.String = "yesterday"
	_, err = bad.value()
	assert.Error(t, err)
}
