package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmissions(t *testing.T) {
	table := Table{
		Source: "emissions.csv",
		Header: []string{"Entity", "Code", "Year", "Annual CO₂ emissions"},
		Rows: [][]string{
			{"X", "XXX", "2000", "50"},
			{"Y", "", "2000", "100"},
			{"Z", "ZZZ", "2000", ""},
			{"Z", "ZZZ", "n/a", "10"},
		},
	}

	rows, skipped, err := ParseEmissions(table)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, []EmissionRow{
		{Country: "X", Year: 2000, Raw: 50},
		{Country: "Y", Year: 2000, Raw: 100},
	}, rows)
}

func TestParseEmissions_CodeColumnOptional(t *testing.T) {
	table := Table{
		Source: "emissions.csv",
		Header: []string{"Entity", "Year", "Annual CO2 emissions"},
		Rows:   [][]string{{"X", "2000", "1"}},
	}

	rows, _, err := ParseEmissions(table)
	require.NoError(t, err)
	assert.Equal(t, []EmissionRow{{Country: "X", Year: 2000, Raw: 1}}, rows)
}

func TestParseEmissions_SchemaMismatch(t *testing.T) {
	table := Table{Source: "emissions.csv", Header: []string{"Entity", "Year"}}

	_, _, err := ParseEmissions(table)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "annual co2 emissions")
}

func TestNormalizeEmissions(t *testing.T) {
	rows := []EmissionRow{
		{Country: "X", Year: 2000, Raw: 50},
		{Country: "Y", Year: 2000, Raw: 100},
		{Country: "X", Year: 2001, Raw: 30},
		{Country: "Y", Year: 2001, Raw: 10},
		{Country: "X", Year: 2002, Raw: 0},
		{Country: "Y", Year: 2002, Raw: 0},
	}

	got := NormalizeEmissions(rows)

	assert.Equal(t, []EmissionPoint{
		{Year: 2000, Value: 0.5, Raw: 50},
		{Year: 2001, Value: 1, Raw: 30},
		{Year: 2002, Value: 0, Raw: 0},
	}, got["X"])
	assert.Equal(t, []EmissionPoint{
		{Year: 2000, Value: 1, Raw: 100},
		{Year: 2001, Value: 10.0 / 30.0, Raw: 10},
		{Year: 2002, Value: 0, Raw: 0},
	}, got["Y"])
	assert.Equal(t, 1, DegenerateYears(rows))
}

func TestNormalizeEmissions_DuplicateCountryYearFirstWins(t *testing.T) {
	rows := []EmissionRow{
		{Country: "X", Year: 2000, Raw: 50},
		{Country: "X", Year: 2000, Raw: 70},
		{Country: "Y", Year: 2000, Raw: 100},
	}

	got := NormalizeEmissions(rows)

	assert.Equal(t, []EmissionPoint{{Year: 2000, Value: 0.5, Raw: 50}}, got["X"])
	assert.Equal(t, []EmissionPoint{{Year: 2000, Value: 1, Raw: 100}}, got["Y"])
}

func TestDedupeEmissions(t *testing.T) {
	rows := []EmissionRow{
		{Country: "X", Year: 2000, Raw: 50},
		{Country: "X", Year: 2000, Raw: 900},
		{Country: "X", Year: 2001, Raw: 60},
		{Country: "X", Year: 2000, Raw: 70},
	}

	kept, dropped := DedupeEmissions(rows)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, []EmissionRow{
		{Country: "X", Year: 2000, Raw: 50},
		{Country: "X", Year: 2001, Raw: 60},
	}, kept)
}

func TestNormalizeEmissions_MaxCountryIsOne(t *testing.T) {
	rows := []EmissionRow{
		{Country: "A", Year: 1990, Raw: 3.3e9},
		{Country: "B", Year: 1990, Raw: 7.1e9},
		{Country: "C", Year: 1990, Raw: 1.2e6},
		{Country: "A", Year: 1991, Raw: 9.9e9},
		{Country: "B", Year: 1991, Raw: 7.0e9},
	}

	got := NormalizeEmissions(rows)

	assert.Equal(t, 1.0, got["B"][0].Value)
	assert.Equal(t, 1.0, got["A"][1].Value)
	for _, points := range got {
		for _, p := range points {
			assert.GreaterOrEqual(t, p.Value, 0.0)
			assert.LessOrEqual(t, p.Value, 1.0)
		}
	}
}

func TestEmissionsIndex(t *testing.T) {
	index := NewEmissionsIndex(NormalizedEmissions{
		"X": {
			{Year: 2000, Value: 0.5, Raw: 50},
			{Year: 2000, Value: 0.9, Raw: 90},
			{Year: 2002, Value: 1, Raw: 70},
		},
	})

	raw, ok := index.Lookup("X", 2000)
	assert.True(t, ok)
	assert.Equal(t, 50.0, raw, "first occurrence wins")

	raw, ok = index.Lookup("X", 2001)
	assert.False(t, ok)
	assert.Equal(t, 0.0, raw)

	_, ok = index.Lookup("Nowhere", 2000)
	assert.False(t, ok)

	assert.Equal(t, 1, index.Duplicates())
}
