package models

// EntityType tags which collection a searchable entity belongs to
type EntityType string

const (
	EntityEvent   EntityType = "event"
	EntityCourse  EntityType = "course"
	EntityProject EntityType = "project"
)

// EntityTypes lists every entity type in the order collections are scanned
var EntityTypes = []EntityType{EntityEvent, EntityCourse, EntityProject}

// Entity is implemented by *Event, *Course and *Project only
type Entity interface {
	Type() EntityType
	Key() string
	entity()
}

type Event struct {
	ID          string `json:"id" toml:"id"`
	Title       string `json:"title" toml:"title"`
	Description string `json:"description" toml:"description"`
	Category    string `json:"category" toml:"category"`
	Date        string `json:"date,omitempty" toml:"date"`
	Location    string `json:"location,omitempty" toml:"location"`
}

type Course struct {
	ID          string   `json:"id" toml:"id"`
	Title       string   `json:"title" toml:"title"`
	Description string   `json:"description" toml:"description"`
	Tags        []string `json:"tags" toml:"tags"`
	Instructor  string   `json:"instructor,omitempty" toml:"instructor"`
	Level       string   `json:"level,omitempty" toml:"level"`
}

type Project struct {
	ID           string   `json:"id" toml:"id"`
	Title        string   `json:"title" toml:"title"`
	Description  string   `json:"description" toml:"description"`
	Technologies []string `json:"technologies" toml:"technologies"`
}

func (e *Event) Type() EntityType   { return EntityEvent }
func (c *Course) Type() EntityType  { return EntityCourse }
func (p *Project) Type() EntityType { return EntityProject }

func (e *Event) Key() string   { return e.ID }
func (c *Course) Key() string  { return c.ID }
func (p *Project) Key() string { return p.ID }

func (*Event) entity()   {}
func (*Course) entity()  {}
func (*Project) entity() {}

// ResultMeta carries the type specific display fields of a search result
type ResultMeta struct {
	Date         string   `json:"date,omitempty"`
	Instructor   string   `json:"instructor,omitempty"`
	Level        string   `json:"level,omitempty"`
	Category     string   `json:"category,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// SearchResult is a lightweight projection of one matched entity
type SearchResult struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        EntityType  `json:"type"`
	Path        string      `json:"path"`
	Meta        *ResultMeta `json:"meta,omitempty"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
