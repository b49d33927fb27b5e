package search

import (
	"errors"
	"fmt"
	"strings"

	"eduhub/models"
)

var ErrInvalidFilter = errors.New("invalid entity type filter")

// EntityFilter restricts a search to one entity type, or to all of them
type EntityFilter string

const FilterAll EntityFilter = "all"

func FilterOf(entityType models.EntityType) EntityFilter {
	return EntityFilter(entityType)
}

// ParseEntityFilter validates a filter coming from outside the process.
// An empty string means all.
func ParseEntityFilter(s string) (EntityFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	filter := EntityFilter(s)
	if !filter.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return filter, nil
}

func (f EntityFilter) Valid() bool {
	if f == FilterAll {
		return true
	}
	for _, t := range models.EntityTypes {
		if EntityFilter(t) == f {
			return true
		}
	}
	return false
}

// Includes reports whether entities of the given type are scanned
func (f EntityFilter) Includes(entityType models.EntityType) bool {
	return f == FilterAll || EntityFilter(entityType) == f
}

// mustValidate panics on a filter outside the enumeration. Such a filter can
// only come from a caller bug since external input goes through ParseEntityFilter.
func (f EntityFilter) mustValidate() {
	if !f.Valid() {
		panic(fmt.Sprintf("search: %v: %q", ErrInvalidFilter, string(f)))
	}
}
