package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject represents a university course before it is split into THEORY/LAB
// components by the solver's instance loader.
type Subject struct {
	ID            string         `db:"id" json:"id"`
	Code          string         `db:"code" json:"code"`
	Name          string         `db:"name" json:"name"`
	Credits       int            `db:"credits" json:"credits"`
	TheoryHours   int            `db:"theory_hours" json:"theory_hours"`
	LabHours      int            `db:"lab_hours" json:"lab_hours"`
	Year          int            `db:"year" json:"year"`
	Prerequisites pq.StringArray `db:"prerequisites" json:"prerequisites"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing courses.
type SubjectFilter struct {
	Year      int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
