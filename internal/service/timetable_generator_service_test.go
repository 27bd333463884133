package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/dto"
	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/jobs"
)

type stubTermReader struct {
	found bool
}

func (s stubTermReader) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if !s.found {
		return nil, sql.ErrNoRows
	}
	return &models.Term{ID: id}, nil
}

type stubSemesterRepo struct {
	created  []*models.SemesterSchedule
	byID     map[string]*models.SemesterSchedule
	statuses map[string]models.SemesterScheduleStatus
}

func newStubSemesterRepo() *stubSemesterRepo {
	return &stubSemesterRepo{byID: map[string]*models.SemesterSchedule{}, statuses: map[string]models.SemesterScheduleStatus{}}
}

func (s *stubSemesterRepo) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.SemesterSchedule) error {
	return nil
}

func (s *stubSemesterRepo) ListByTerm(ctx context.Context, termID string) ([]models.SemesterSchedule, error) {
	var out []models.SemesterSchedule
	for _, v := range s.byID {
		if v.TermID == termID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubSemesterRepo) FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error) {
	if v, ok := s.byID[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubSemesterRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.byID, id)
	return nil
}

func (s *stubSemesterRepo) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SemesterScheduleStatus, meta types.JSONText) error {
	record, ok := s.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	record.Status = status
	return nil
}

func sampleGenerateRequest() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		Input: dto.TimetableInput{
			Periods: []dto.PeriodInput{
				{DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00"},
				{DayOfWeek: "MON", StartTime: "09:00", EndTime: "10:00"},
			},
			Classrooms: []dto.ClassroomInput{
				{RoomCode: "R1", RoomType: "THEORY", Capacity: 40},
			},
			Professors: []dto.ProfessorInput{
				{
					ProfessorID: "P1",
					Name:        "Prof One",
					Availabilities: []dto.AvailabilityInput{
						{DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00"},
						{DayOfWeek: "MON", StartTime: "09:00", EndTime: "10:00"},
					},
				},
			},
			Courses: []dto.CourseInput{
				{CourseCode: "CS1", CourseName: "Intro", TheoryHours: 2, LabHours: 0, Professors: []string{"P1"}, Year: 1, StudentCount: 30},
			},
		},
		Params: dto.SolverParams{PopSize: 4, Generations: 2, TournamentK: 2, PCross: 0.8, PMut: 0.2, Seed: 1, Workers: 1},
	}
}

func TestTimetableGeneratorServiceGenerate(t *testing.T) {
	terms := stubTermReader{found: true}
	semesters := newStubSemesterRepo()
	service := NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(), TimetableGeneratorConfig{})

	resp, err := service.Generate(context.Background(), "term-1", sampleGenerateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.Output.Statistics.TotalCourses)
	assert.Equal(t, 2, resp.Output.Statistics.TotalSessions)
}

func TestTimetableGeneratorServiceGenerateTermNotFound(t *testing.T) {
	terms := stubTermReader{found: false}
	semesters := newStubSemesterRepo()
	service := NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(), TimetableGeneratorConfig{})

	_, err := service.Generate(context.Background(), "missing-term", sampleGenerateRequest())
	require.Error(t, err)
}

func TestTimetableGeneratorServiceCommitUnknownRun(t *testing.T) {
	terms := stubTermReader{found: true}
	semesters := newStubSemesterRepo()
	service := NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(), TimetableGeneratorConfig{})

	_, err := service.Commit(context.Background(), "term-1", "ghost-run")
	require.Error(t, err)
}

func TestTimetableGeneratorServiceList(t *testing.T) {
	terms := stubTermReader{found: true}
	semesters := newStubSemesterRepo()
	semesters.byID["sched-1"] = &models.SemesterSchedule{ID: "sched-1", TermID: "term-1", Status: models.SemesterScheduleStatusDraft}
	service := NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(), TimetableGeneratorConfig{})

	schedules, err := service.List(context.Background(), "term-1")
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestTimetableGeneratorServiceAsyncGenerateAndPoll(t *testing.T) {
	terms := stubTermReader{found: true}
	semesters := newStubSemesterRepo()

	var svc *TimetableGeneratorService
	queue := jobs.NewQueue("test-generation", func(ctx context.Context, job jobs.Job) error {
		return svc.HandleAsyncJob(ctx, job)
	}, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()

	svc = NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(),
		TimetableGeneratorConfig{Queue: queue, AsyncThreshold: 0})

	resp, err := svc.Generate(context.Background(), "term-1", sampleGenerateRequest())
	require.NoError(t, err)
	assert.Equal(t, RunStatusQueued, resp.Status)
	assert.NotEmpty(t, resp.RunID)

	var final *dto.GenerateTimetableResponse
	for i := 0; i < 50; i++ {
		final, err = svc.GetRun(context.Background(), "term-1", resp.RunID)
		require.NoError(t, err)
		if final.Status != RunStatusQueued {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, RunStatusCompleted, final.Status)
	assert.Equal(t, 1, final.Output.Statistics.TotalCourses)
}

func TestTimetableGeneratorServiceDeletePublishedRejected(t *testing.T) {
	terms := stubTermReader{found: true}
	semesters := newStubSemesterRepo()
	semesters.byID["sched-1"] = &models.SemesterSchedule{ID: "sched-1", TermID: "term-1", Status: models.SemesterScheduleStatusPublished}
	service := NewTimetableGeneratorService(terms, semesters, nil, nil, validator.New(), zap.NewNop(), TimetableGeneratorConfig{})

	err := service.Delete(context.Background(), "sched-1")
	require.Error(t, err)
}
