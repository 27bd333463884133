package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
)

// TeacherAssignmentRepository persists professor-course-term eligibility
// tuples. Generation does not read them; it takes eligible professors from
// the posted instance.
type TeacherAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeacherAssignmentRepository constructs the repository.
func NewTeacherAssignmentRepository(db *sqlx.DB) *TeacherAssignmentRepository {
	return &TeacherAssignmentRepository{db: db}
}

// ListByTeacher returns assignments owned by teacher.
func (r *TeacherAssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAssignmentDetail, error) {
	const query = `
SELECT ta.id, ta.teacher_id, ta.subject_id, ta.term_id, ta.created_at,
       s.name AS subject_name, t.name AS term_name, tr.full_name AS teacher_name
FROM teacher_assignments ta
JOIN subjects s ON s.id = ta.subject_id
JOIN terms t ON t.id = ta.term_id
JOIN teachers tr ON tr.id = ta.teacher_id
WHERE ta.teacher_id = $1
ORDER BY t.start_date DESC, s.name ASC`
	var assignments []models.TeacherAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// ListEligibleInstructors returns the ids of teachers assigned to teach a
// subject in a term, ordered by teacher id.
func (r *TeacherAssignmentRepository) ListEligibleInstructors(ctx context.Context, subjectID, termID string) ([]string, error) {
	const query = `SELECT teacher_id FROM teacher_assignments WHERE subject_id = $1 AND term_id = $2 ORDER BY teacher_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, subjectID, termID); err != nil {
		return nil, fmt.Errorf("list eligible instructors: %w", err)
	}
	return ids, nil
}

// Exists checks if the teacher-subject-term tuple already exists.
func (r *TeacherAssignmentRepository) Exists(ctx context.Context, teacherID, subjectID, termID string) (bool, error) {
	const query = `SELECT 1 FROM teacher_assignments WHERE teacher_id = $1 AND subject_id = $2 AND term_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, subjectID, termID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment.
func (r *TeacherAssignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	const query = `INSERT INTO teacher_assignments (id, teacher_id, subject_id, term_id, created_at)
		VALUES (:id, :teacher_id, :subject_id, :term_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teacher assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment verifying ownership.
func (r *TeacherAssignmentRepository) Delete(ctx context.Context, teacherID, assignmentID string) error {
	const query = `DELETE FROM teacher_assignments WHERE id = $1 AND teacher_id = $2`
	result, err := r.db.ExecContext(ctx, query, assignmentID, teacherID)
	if err != nil {
		return fmt.Errorf("delete teacher assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByTeacherAndTerm returns number of assignments for teacher in a term.
func (r *TeacherAssignmentRepository) CountByTeacherAndTerm(ctx context.Context, teacherID, termID string) (int, error) {
	const query = `SELECT COUNT(*) FROM teacher_assignments WHERE teacher_id = $1 AND term_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID, termID); err != nil {
		return 0, fmt.Errorf("count teacher assignments: %w", err)
	}
	return count, nil
}
