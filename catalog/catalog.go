// Package catalog holds the read-only collections the search engine scans
package catalog

import (
	"fmt"
	"os"

	"eduhub/models"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Catalog is the set of typed collections supplied by an external data source.
// It is never mutated after loading.
type Catalog struct {
	Events   []*models.Event   `toml:"events"`
	Courses  []*models.Course  `toml:"courses"`
	Projects []*models.Project `toml:"projects"`
}

// Collection returns the entities of one type in collection order
func (c *Catalog) Collection(entityType models.EntityType) []models.Entity {
	switch entityType {
	case models.EntityEvent:
		return lo.Map(c.Events, func(e *models.Event, _ int) models.Entity { return e })
	case models.EntityCourse:
		return lo.Map(c.Courses, func(e *models.Course, _ int) models.Entity { return e })
	case models.EntityProject:
		return lo.Map(c.Projects, func(e *models.Project, _ int) models.Entity { return e })
	default:
		panic(fmt.Sprintf("catalog: unknown entity type %q", entityType))
	}
}

// Collections returns all collections in scan order: events, courses, projects
func (c *Catalog) Collections() [][]models.Entity {
	return lo.Map(models.EntityTypes, func(t models.EntityType, _ int) []models.Entity {
		return c.Collection(t)
	})
}

func (c *Catalog) Len() int {
	return len(c.Events) + len(c.Courses) + len(c.Projects)
}

// LoadFile reads a catalog from a TOML file with [[events]], [[courses]]
// and [[projects]] tables.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("error parsing catalog file: %w", err)
	}

	log.WithFields(log.Fields{
		"path":     path,
		"events":   len(catalog.Events),
		"courses":  len(catalog.Courses),
		"projects": len(catalog.Projects),
	}).Info("Loaded catalog")

	return &catalog, nil
}
