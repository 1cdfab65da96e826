package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCountryYears(t *testing.T) {
	events := []DisasterEvent{
		{Year: 2001, Level: 2, DisasterType: "storm", Country: "Chile"},
		{Year: 2000, Level: 1, DisasterType: "flood", Country: "Chile"},
		{Year: 2001, Level: 3, DisasterType: "flood", Country: "Chile"},
		{Year: 2001, Level: 4, DisasterType: "storm", Country: "Chile"},
		{Year: 1999, Level: 5, DisasterType: "quake", Country: "Angola"},
		{Year: 1999, Level: 7, DisasterType: "quake", Country: ""},
	}

	aggs := AggregateCountryYears(events, JoinUnique)

	assert.Equal(t, []CountryYearAggregate{
		{Country: "Angola", Year: 1999, TotalLevel: 5, NumDisasters: 1, DisasterTypes: "quake"},
		{Country: "Chile", Year: 2000, TotalLevel: 1, NumDisasters: 1, DisasterTypes: "flood"},
		{Country: "Chile", Year: 2001, TotalLevel: 9, NumDisasters: 3, DisasterTypes: "storm, flood"},
	}, aggs)
}

func TestAggregateCountryYears_AllJoinKeepsDuplicates(t *testing.T) {
	events := []DisasterEvent{
		{Year: 2001, Level: 2, DisasterType: "storm", Country: "Chile"},
		{Year: 2001, Level: 4, DisasterType: "storm", Country: "Chile"},
	}

	aggs := AggregateCountryYears(events, JoinAll)
	require.Len(t, aggs, 1)
	assert.Equal(t, "storm, storm", aggs[0].DisasterTypes)
}

func TestParseTypeJoin(t *testing.T) {
	join, err := ParseTypeJoin(" Unique ")
	require.NoError(t, err)
	assert.Equal(t, JoinUnique, join)

	join, err = ParseTypeJoin("all")
	require.NoError(t, err)
	assert.Equal(t, JoinAll, join)

	_, err = ParseTypeJoin("distinct")
	assert.Error(t, err)
}
