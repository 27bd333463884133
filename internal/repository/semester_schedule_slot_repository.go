package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
)

// SemesterScheduleSlotRepository manages slots for semester schedules: one
// row per scheduled course component, the persisted form of spec section
// 6's schedule[] entry.
type SemesterScheduleSlotRepository struct {
	db *sqlx.DB
}

// NewSemesterScheduleSlotRepository builds repository.
func NewSemesterScheduleSlotRepository(db *sqlx.DB) *SemesterScheduleSlotRepository {
	return &SemesterScheduleSlotRepository{db: db}
}

func (r *SemesterScheduleSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// UpsertBatch inserts or updates slots for a semester schedule.
func (r *SemesterScheduleSlotRepository) UpsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO semester_schedule_slots (id, semester_schedule_id, component_id, course_code, day_of_week, start_time, end_time, room_id, teacher_id, created_at)
VALUES (:id, :semester_schedule_id, :component_id, :course_code, :day_of_week, :start_time, :end_time, :room_id, :teacher_id, :created_at)
ON CONFLICT (semester_schedule_id, component_id) DO UPDATE
SET day_of_week = EXCLUDED.day_of_week,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    room_id = EXCLUDED.room_id,
    teacher_id = EXCLUDED.teacher_id`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
			return fmt.Errorf("upsert semester schedule slot: %w", err)
		}
	}
	return nil
}

// ListBySchedule returns slots ordered by day/time for a schedule.
func (r *SemesterScheduleSlotRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	const query = `SELECT id, semester_schedule_id, component_id, course_code, day_of_week, start_time, end_time, room_id, teacher_id, created_at
FROM semester_schedule_slots WHERE semester_schedule_id = $1 ORDER BY day_of_week ASC, start_time ASC`
	var slots []models.SemesterScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list semester schedule slots: %w", err)
	}
	return slots, nil
}
