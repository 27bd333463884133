package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherAvailabilityWindow describes one open teaching window, stored as a
// JSON array in TeacherPreference.Availability (spec section 6's
// professors[].availabilities).
type TeacherAvailabilityWindow struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TeacherPreference stores availability windows and load limits for a
// professor. An empty Availability means unconstrained, per spec section 3.
type TeacherPreference struct {
	ID             string         `db:"id" json:"id"`
	TeacherID      string         `db:"teacher_id" json:"teacher_id"`
	MaxLoadPerDay  int            `db:"max_load_per_day" json:"max_load_per_day"`
	MaxLoadPerWeek int            `db:"max_load_per_week" json:"max_load_per_week"`
	Availability   types.JSONText `db:"availability" json:"availability"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
