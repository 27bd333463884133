package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
)

type mockCourseRepo struct {
	items      map[string]*models.Subject
	codeIndex  map[string]string
	listResult []models.Subject
	listTotal  int
	listErr    error
	deleted    []string
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if course, ok := m.items[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ListForTerm(ctx context.Context, termID string) ([]models.Subject, error) {
	return m.listResult, nil
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	if owner, ok := m.codeIndex[code]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Subject) error {
	if m.items == nil {
		m.items = make(map[string]*models.Subject)
	}
	if course.ID == "" {
		course.ID = "generated"
	}
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Subject) error {
	if m.items == nil {
		m.items = make(map[string]*models.Subject)
	}
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	service := NewCourseService(repo, validator.New(), zap.NewNop())

	course, err := service.Create(context.Background(), CreateCourseRequest{
		Code:        "cs101",
		Name:        "Intro to CS",
		Credits:     3,
		TheoryHours: 2,
		LabHours:    1,
		Year:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Len(t, repo.items, 1)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockCourseRepo{codeIndex: map[string]string{"CS101": "another"}}
	service := NewCourseService(repo, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateCourseRequest{
		Code: "CS101",
		Name: "Intro to CS",
	})
	require.Error(t, err)
}

func TestCourseServiceUpdate(t *testing.T) {
	repo := &mockCourseRepo{
		items: map[string]*models.Subject{
			"c1": {ID: "c1", Code: "CS101", Name: "Intro to CS", TheoryHours: 2},
		},
	}
	service := NewCourseService(repo, validator.New(), zap.NewNop())

	updated, err := service.Update(context.Background(), "c1", UpdateCourseRequest{
		Code:        "CS102",
		Name:        "Intro to CS II",
		TheoryHours: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "CS102", updated.Code)
	assert.Equal(t, "Intro to CS II", updated.Name)
}

func TestCourseServiceDelete(t *testing.T) {
	repo := &mockCourseRepo{
		items: map[string]*models.Subject{
			"c1": {ID: "c1", Code: "CS101", Name: "Intro to CS"},
		},
	}
	service := NewCourseService(repo, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
}

func TestCourseServiceGetNotFound(t *testing.T) {
	repo := &mockCourseRepo{}
	service := NewCourseService(repo, validator.New(), zap.NewNop())

	_, err := service.Get(context.Background(), "missing")
	require.Error(t, err)
}
