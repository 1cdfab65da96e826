package domain

import (
	"fmt"
	"strings"
)

// TypeJoin selects how the disaster types of a group are rendered.
type TypeJoin string

const (
	// JoinAll concatenates every member's type in order, duplicates included.
	// Spatial bins use it by default.
	JoinAll TypeJoin = "all"
	// JoinUnique keeps each type once, in first-seen order.
	// Country-year aggregates use it by default.
	JoinUnique TypeJoin = "unique"
)

const typeSeparator = ", "

// ParseTypeJoin validates a configured join name.
func ParseTypeJoin(s string) (TypeJoin, error) {
	switch TypeJoin(strings.ToLower(strings.TrimSpace(s))) {
	case JoinAll:
		return JoinAll, nil
	case JoinUnique:
		return JoinUnique, nil
	default:
		return "", fmt.Errorf("unknown type join %q (want %q or %q)", s, JoinAll, JoinUnique)
	}
}

// Join renders types according to the strategy. Unknown strategies behave as JoinAll.
func (j TypeJoin) Join(types []string) string {
	if j != JoinUnique {
		return strings.Join(types, typeSeparator)
	}
	seen := make(map[string]bool, len(types))
	unique := make([]string, 0, len(types))
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	return strings.Join(unique, typeSeparator)
}
