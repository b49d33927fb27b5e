package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eduhub/catalog"
	"eduhub/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

const queryTimeout = 30 * time.Second

// DB stores the catalog collections in a SQLite database
type DB struct {
	db *sql.DB
}

func NewDB(database string) (*DB, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &DB{db: db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Collection order is curated by the position column
func selectQuery(table string, columns ...string) (string, []interface{}) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(columns...).From(table)
	sb.OrderBy("position", "id").Asc()
	return sb.Build()
}

func eventsQuery() (string, []interface{}) {
	return selectQuery("events", "id", "title", "description", "category", "date", "location")
}

func coursesQuery() (string, []interface{}) {
	return selectQuery("courses", "id", "title", "description", "instructor", "level")
}

func projectsQuery() (string, []interface{}) {
	return selectQuery("projects", "id", "title", "description")
}

func valuesQuery(table, keyColumn, valueColumn string) (string, []interface{}) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(keyColumn, valueColumn).From(table)
	sb.OrderBy(keyColumn, "position").Asc()
	return sb.Build()
}

// LoadCatalog reads all three collections
func (db *DB) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	events, err := db.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := db.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := db.GetProjects(ctx)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"events":   len(events),
		"courses":  len(courses),
		"projects": len(projects),
	}).Info("Loaded catalog from database")

	return &catalog.Catalog{Events: events, Courses: courses, Projects: projects}, nil
}

func (db *DB) GetEvents(ctx context.Context) ([]*models.Event, error) {
	query, args := eventsQuery()
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var date, location sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &date, &location); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		e.Date = date.String
		e.Location = location.String
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (db *DB) GetCourses(ctx context.Context) ([]*models.Course, error) {
	tags, err := db.getValues(ctx, "course_tags", "course_id", "tag")
	if err != nil {
		return nil, err
	}

	query, args := coursesQuery()
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		var instructor, level sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &instructor, &level); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		c.Tags = tags[c.ID]
		c.Instructor = instructor.String
		c.Level = level.String
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func (db *DB) GetProjects(ctx context.Context) ([]*models.Project, error) {
	technologies, err := db.getValues(ctx, "project_technologies", "project_id", "technology")
	if err != nil {
		return nil, err
	}

	query, args := projectsQuery()
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		p.Technologies = technologies[p.ID]
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// getValues reads a list table into ordered values per owning row
func (db *DB) getValues(ctx context.Context, table, keyColumn, valueColumn string) (map[string][]string, error) {
	query, args := valuesQuery(table, keyColumn, valueColumn)
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	values := map[string][]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		values[key] = append(values[key], value)
	}
	return values, rows.Err()
}
