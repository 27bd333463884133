package service

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/storage"
)

type stubScheduleReader struct {
	schedules map[string]*models.SemesterSchedule
}

func (s stubScheduleReader) FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error) {
	if sched, ok := s.schedules[id]; ok {
		return sched, nil
	}
	return nil, sql.ErrNoRows
}

type stubScheduleSlotReader struct {
	slots []models.SemesterScheduleSlot
}

func (s stubScheduleSlotReader) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	return s.slots, nil
}

func newScheduleExportServiceForTest(t *testing.T) (*ScheduleExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)

	teacherID := "prof-1"
	schedules := stubScheduleReader{schedules: map[string]*models.SemesterSchedule{
		"sched-1": {ID: "sched-1", TermID: "term-1", Version: 1, Status: models.SemesterScheduleStatusDraft},
	}}
	slots := stubScheduleSlotReader{slots: []models.SemesterScheduleSlot{
		{ID: "slot-1", SemesterScheduleID: "sched-1", ComponentID: "CS1-THEORY", CourseCode: "CS1", DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00", RoomID: "R1", TeacherID: &teacherID},
	}}

	cfg := ScheduleExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewScheduleExportService(schedules, slots, store, signer, cfg, zap.NewNop())
	return svc, store
}

func TestScheduleExportServiceGenerateCSV(t *testing.T) {
	svc, store := newScheduleExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "sched-1", ScheduleExportFormatCSV)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/timetable/exports/")

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestScheduleExportServiceGeneratePDF(t *testing.T) {
	svc, store := newScheduleExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "sched-1", ScheduleExportFormatPDF)
	require.NoError(t, err)
	require.Equal(t, ScheduleExportFormatPDF, result.Format)

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestScheduleExportServiceUnknownSchedule(t *testing.T) {
	svc, _ := newScheduleExportServiceForTest(t)

	_, err := svc.Generate(context.Background(), "missing", ScheduleExportFormatCSV)
	require.Error(t, err)
}

func TestScheduleExportServiceParseToken(t *testing.T) {
	svc, _ := newScheduleExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "sched-1", ScheduleExportFormatCSV)
	require.NoError(t, err)

	scheduleID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "sched-1", scheduleID)
	require.Equal(t, result.RelativePath, relPath)
}
