// Package domain derives the globe visualization datasets from disaster,
// emissions and boundary data.
//
// # Data Sources
//
// Disaster events arrive from two differently shaped tables: the historical
// geocoded disaster CSV and a post-2015 XLSX supplement. Both must carry the
// columns year, level, disastertype, latitude, longitude and country; anything
// else is ignored. Emissions come from the Our World in Data annual CO₂ table
// (Entity, Code, Year, "Annual CO₂ emissions" in tonnes). Boundaries are a
// GeoJSON FeatureCollection of country polygons.
//
// # Derived Datasets
//
//	normalized_emissions.json          country → [{year, value, raw}]
//	combined_disasters_aggregated.json year + 0.01° cell summaries, level > 1
//	combined_disasters_suffering.json  country-year totals with suffering index
//	centroids.json                     unweighted vertex-mean country centroids
//
// # Two Type-Join Policies
//
// Spatial bins concatenate every member's disaster type ("flood, flood,
// storm"); country-year aggregates keep each type once in first-seen order
// ("flood, storm"). Both are [TypeJoin] strategies and are chosen by
// configuration, not reconciled.
//
// # Suffering Index
//
// In [ModeCumulative] each country's years are folded in ascending order:
//
//	suffering_index = cum_level / (cum_emissions / scale)   if cum_emissions > 0
//	                = 0                                      otherwise
//
// with scale defaulting to [DefaultEmissionsScale] (tonnes → gigatonnes).
// [ModePointwise] is the exploratory variant: total_level whenever that year
// has any emissions, else 0.
//
// # Rounding
//
// Bin coordinates are rounded to two decimals with round-half-to-even on
// v*100. A value such as 0.125 lands in 0.12.
//
// # Recoverable Conditions
//
// Missing emissions for a country-year, features without coordinates, years
// whose maximum emission is zero and rows with unparseable numbers are all
// handled locally and reported as counts. Only a missing required column
// ([SchemaMismatchError]) aborts a run.
package domain
