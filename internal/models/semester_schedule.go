package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SemesterScheduleStatus represents lifecycle phases for generated schedules.
type SemesterScheduleStatus string

const (
	SemesterScheduleStatusDraft     SemesterScheduleStatus = "DRAFT"
	SemesterScheduleStatusPublished SemesterScheduleStatus = "PUBLISHED"
	SemesterScheduleStatusArchived  SemesterScheduleStatus = "ARCHIVED"
)

// SemesterSchedule captures one run of the GA solver for a term: the
// generated timetable's lifecycle status plus its evaluator diagnostics
// (hard/soft cost breakdown, per-constraint violation counts).
type SemesterSchedule struct {
	ID        string                 `db:"id" json:"id"`
	TermID    string                 `db:"term_id" json:"term_id"`
	RunID     string                 `db:"run_id" json:"run_id"`
	Version   int                    `db:"version" json:"version"`
	Status    SemesterScheduleStatus `db:"status" json:"status"`
	Meta      types.JSONText         `db:"meta" json:"meta"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt time.Time              `db:"updated_at" json:"updated_at"`
}

// SemesterScheduleSlot is one course-component assignment within a
// generated timetable (spec section 6's schedule[] entry, persisted form).
type SemesterScheduleSlot struct {
	ID                 string    `db:"id" json:"id"`
	SemesterScheduleID string    `db:"semester_schedule_id" json:"semester_schedule_id"`
	ComponentID        string    `db:"component_id" json:"component_id"`
	CourseCode         string    `db:"course_code" json:"course_code"`
	DayOfWeek          string    `db:"day_of_week" json:"day_of_week"`
	StartTime          string    `db:"start_time" json:"start_time"`
	EndTime            string    `db:"end_time" json:"end_time"`
	RoomID             string    `db:"room_id" json:"room_id"`
	TeacherID          *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SemesterScheduleSummary aggregates versions generated for a term.
type SemesterScheduleSummary struct {
	TermID    string                 `json:"term_id"`
	ActiveID  *string                `json:"active_id,omitempty"`
	Versions  []SemesterScheduleMeta `json:"versions"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SemesterScheduleMeta represents lightweight metadata for list views.
type SemesterScheduleMeta struct {
	ID        string                 `json:"id"`
	Version   int                    `json:"version"`
	Status    SemesterScheduleStatus `json:"status"`
	Score     float64                `json:"score"`
	CreatedAt time.Time              `json:"created_at"`
}
