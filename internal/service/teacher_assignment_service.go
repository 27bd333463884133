package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	appErrors "github.com/unsa-dacc/cb-ttp-engine/pkg/errors"
)

type teacherAssignmentRepo interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAssignmentDetail, error)
	ListEligibleInstructors(ctx context.Context, subjectID, termID string) ([]string, error)
	Exists(ctx context.Context, teacherID, subjectID, termID string) (bool, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
	Delete(ctx context.Context, teacherID, assignmentID string) error
	CountByTeacherAndTerm(ctx context.Context, teacherID, termID string) (int, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type termReader interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type teacherPreferenceReader interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
}

// CreateTeacherAssignmentRequest describes an eligibility assignment
// payload: a professor becomes eligible to teach a subject's components in
// a given term. Generation does not read these records.
type CreateTeacherAssignmentRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	TermID    string `json:"term_id" validate:"required"`
}

// TeacherAssignmentService manages professor-subject-term eligibility.
type TeacherAssignmentService struct {
	teachers    teacherRepository
	subjects    subjectReader
	terms       termReader
	assignments teacherAssignmentRepo
	prefs       teacherPreferenceReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherAssignmentService creates a service instance.
func NewTeacherAssignmentService(
	teachers teacherRepository,
	subjects subjectReader,
	terms termReader,
	assignments teacherAssignmentRepo,
	prefs teacherPreferenceReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *TeacherAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherAssignmentService{
		teachers:    teachers,
		subjects:    subjects,
		terms:       terms,
		assignments: assignments,
		prefs:       prefs,
		validator:   validate,
		logger:      logger,
	}
}

// ListByTeacher returns assignments for the teacher.
func (s *TeacherAssignmentService) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAssignmentDetail, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Assign creates a new eligibility mapping between teacher, subject and term.
func (s *TeacherAssignmentService) Assign(ctx context.Context, teacherID string, req CreateTeacherAssignmentRequest) (*models.TeacherAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "teacher inactive")
	}

	if err := s.ensureSubjectTerm(ctx, req.SubjectID, req.TermID); err != nil {
		return nil, err
	}

	exists, err := s.assignments.Exists(ctx, teacherID, req.SubjectID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already assigned to this subject and term")
	}

	if err := s.ensureLoadCapacity(ctx, teacherID, req.TermID); err != nil {
		return nil, err
	}

	assignment := &models.TeacherAssignment{
		TeacherID: teacherID,
		SubjectID: req.SubjectID,
		TermID:    req.TermID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Remove deletes an assignment.
func (s *TeacherAssignmentService) Remove(ctx context.Context, teacherID, assignmentID string) error {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.assignments.Delete(ctx, teacherID, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

func (s *TeacherAssignmentService) ensureSubjectTerm(ctx context.Context, subjectID, termID string) error {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if _, err := s.terms.FindByID(ctx, termID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return nil
}

func (s *TeacherAssignmentService) ensureLoadCapacity(ctx context.Context, teacherID, termID string) error {
	if s.prefs == nil {
		return nil
	}
	pref, err := s.prefs.GetByTeacher(ctx, teacherID)
	if err != nil && err != sql.ErrNoRows {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read teacher preferences")
	}
	if pref == nil || pref.MaxLoadPerWeek <= 0 {
		return nil
	}
	count, err := s.assignments.CountByTeacherAndTerm(ctx, teacherID, termID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read assignment load")
	}
	if count >= pref.MaxLoadPerWeek {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "teacher has reached weekly load limit")
	}
	return nil
}
