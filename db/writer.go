package db

import (
	"context"
	"database/sql"
	"fmt"

	"eduhub/catalog"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tables in delete order, list tables before their owners
var catalogTables = []string{"project_technologies", "projects", "course_tags", "courses", "events"}

// ImportCatalog replaces the stored catalog with c in one transaction.
// Collection order is kept in the position columns.
func (db *DB) ImportCatalog(ctx context.Context, c *catalog.Catalog) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range catalogTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	inserts := []*sqlbuilder.InsertBuilder{}

	if len(c.Events) > 0 {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto("events").Cols("id", "position", "title", "description", "category", "date", "location")
		for i, e := range c.Events {
			ib.Values(e.ID, i, e.Title, e.Description, e.Category, nullable(e.Date), nullable(e.Location))
		}
		inserts = append(inserts, ib)
	}

	if len(c.Courses) > 0 {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto("courses").Cols("id", "position", "title", "description", "instructor", "level")
		tags := sqlbuilder.SQLite.NewInsertBuilder()
		tags.InsertInto("course_tags").Cols("course_id", "position", "tag")
		hasTags := false
		for i, course := range c.Courses {
			ib.Values(course.ID, i, course.Title, course.Description, nullable(course.Instructor), nullable(course.Level))
			for j, tag := range course.Tags {
				tags.Values(course.ID, j, tag)
				hasTags = true
			}
		}
		inserts = append(inserts, ib)
		if hasTags {
			inserts = append(inserts, tags)
		}
	}

	if len(c.Projects) > 0 {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto("projects").Cols("id", "position", "title", "description")
		technologies := sqlbuilder.SQLite.NewInsertBuilder()
		technologies.InsertInto("project_technologies").Cols("project_id", "position", "technology")
		hasTechnologies := false
		for i, p := range c.Projects {
			ib.Values(p.ID, i, p.Title, p.Description)
			for j, tech := range p.Technologies {
				technologies.Values(p.ID, j, tech)
				hasTechnologies = true
			}
		}
		inserts = append(inserts, ib)
		if hasTechnologies {
			inserts = append(inserts, technologies)
		}
	}

	for _, ib := range inserts {
		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	log.WithFields(log.Fields{
		"events":   len(c.Events),
		"courses":  len(c.Courses),
		"projects": len(c.Projects),
	}).Info("Imported catalog")

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
