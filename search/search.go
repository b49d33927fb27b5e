// Package search implements the federated substring search over the catalog
// collections.
package search

import (
	"fmt"
	"strings"

	"eduhub/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Search scans the given collections in order and returns a result for every
// entity admitted by filter whose title, description or type specific fields
// contain query, ignoring case. An empty query matches every entity.
//
// Search is pure: it never mutates the collections and returns the same
// output for the same input. It panics if filter is not a known value.
func Search(query string, filter EntityFilter, sources ...[]models.Entity) []models.SearchResult {
	filter.mustValidate()

	needle := strings.ToLower(query)
	results := make([]models.SearchResult, 0)

	for _, source := range sources {
		for _, entity := range source {
			if entity == nil || !filter.Includes(entity.Type()) {
				continue
			}

			fields, ok := searchableFields(entity)
			if !ok {
				log.WithFields(log.Fields{
					"type": entity.Type(),
				}).Debug("Skipping malformed catalog entry")
				continue
			}

			if lo.SomeBy(fields, func(field string) bool {
				return strings.Contains(strings.ToLower(field), needle)
			}) {
				results = append(results, toResult(entity))
			}
		}
	}

	return results
}

// searchableFields lists the fields a query is matched against. It reports
// false for entries that cannot be projected into a result.
func searchableFields(entity models.Entity) ([]string, bool) {
	switch e := entity.(type) {
	case *models.Event:
		if e == nil || e.ID == "" {
			return nil, false
		}
		return []string{e.Title, e.Description, e.Category}, true
	case *models.Course:
		if e == nil || e.ID == "" {
			return nil, false
		}
		return append([]string{e.Title, e.Description}, e.Tags...), true
	case *models.Project:
		if e == nil || e.ID == "" {
			return nil, false
		}
		return append([]string{e.Title, e.Description}, e.Technologies...), true
	default:
		panic(fmt.Sprintf("search: unhandled entity %T", entity))
	}
}

func toResult(entity models.Entity) models.SearchResult {
	switch e := entity.(type) {
	case *models.Event:
		return models.SearchResult{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Type:        models.EntityEvent,
			Path:        "/events/" + e.ID,
			Meta: &models.ResultMeta{
				Date:     e.Date,
				Category: e.Category,
			},
		}
	case *models.Course:
		return models.SearchResult{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Type:        models.EntityCourse,
			Path:        "/courses/" + e.ID,
			Meta: &models.ResultMeta{
				Instructor: e.Instructor,
				Level:      e.Level,
			},
		}
	case *models.Project:
		return models.SearchResult{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Type:        models.EntityProject,
			Path:        "/projects/" + e.ID,
			Meta: &models.ResultMeta{
				Technologies: e.Technologies,
			},
		}
	default:
		panic(fmt.Sprintf("search: unhandled entity %T", entity))
	}
}
