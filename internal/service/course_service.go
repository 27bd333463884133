package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	appErrors "github.com/unsa-dacc/cb-ttp-engine/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ListForTerm(ctx context.Context, termID string) ([]models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Subject) error
	Update(ctx context.Context, course *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// CreateCourseRequest captures payload for creating a course, split by the
// solver into THEORY/LAB components at load time.
type CreateCourseRequest struct {
	Code          string   `json:"code" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Credits       int      `json:"credits" validate:"min=0"`
	TheoryHours   int      `json:"theory_hours" validate:"min=0"`
	LabHours      int      `json:"lab_hours" validate:"min=0"`
	Year          int      `json:"year" validate:"min=0"`
	Prerequisites []string `json:"prerequisites"`
}

// UpdateCourseRequest captures payload for updating a course.
type UpdateCourseRequest struct {
	Code          string   `json:"code" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Credits       int      `json:"credits" validate:"min=0"`
	TheoryHours   int      `json:"theory_hours" validate:"min=0"`
	LabHours      int      `json:"lab_hours" validate:"min=0"`
	Year          int      `json:"year" validate:"min=0"`
	Prerequisites []string `json:"prerequisites"`
}

// CourseService orchestrates course CRUD ahead of instance loading.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses plus pagination data.
func (s *CourseService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Subject, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// ListForTerm returns the courses offered in a given term for catalog
// browsing; generation takes its courses from the request body instead.
func (s *CourseService) ListForTerm(ctx context.Context, termID string) ([]models.Subject, error) {
	courses, err := s.repo.ListForTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list term courses")
	}
	return courses, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	course := &models.Subject{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:          strings.TrimSpace(req.Name),
		Credits:       req.Credits,
		TheoryHours:   req.TheoryHours,
		LabHours:      req.LabHours,
		Year:          req.Year,
		Prerequisites: req.Prerequisites,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
		return nil, err
	}

	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.Name = strings.TrimSpace(req.Name)
	course.Credits = req.Credits
	course.TheoryHours = req.TheoryHours
	course.LabHours = req.LabHours
	course.Year = req.Year
	course.Prerequisites = req.Prerequisites

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, trimmed, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	return nil
}
