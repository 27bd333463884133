package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/export"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/storage"
)

// ScheduleExportFormat enumerates supported render targets for a committed
// semester schedule.
type ScheduleExportFormat string

const (
	ScheduleExportFormatCSV ScheduleExportFormat = "csv"
	ScheduleExportFormatPDF ScheduleExportFormat = "pdf"
)

type scheduleSlotReader interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error)
}

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error)
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ScheduleExportConfig tunes export behaviour.
type ScheduleExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ScheduleExportResult captures successful generation metadata.
type ScheduleExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       ScheduleExportFormat
	ExpiresAt    time.Time
}

// ScheduleExportService renders a committed semester schedule's slots into a
// downloadable file and issues a signed URL for it, the same propose-a-file
// / sign-a-link shape the teacher uses for report exports.
type ScheduleExportService struct {
	schedules scheduleReader
	slots     scheduleSlotReader
	storage   exportFileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ScheduleExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewScheduleExportService constructs a ScheduleExportService.
func NewScheduleExportService(
	schedules scheduleReader,
	slots scheduleSlotReader,
	fileStore exportFileStorage,
	signer *storage.SignedURLSigner,
	cfg ScheduleExportConfig,
	logger *zap.Logger,
) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ScheduleExportService{
		schedules: schedules,
		slots:     slots,
		storage:   fileStore,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate renders the schedule's slots and persists the output file.
func (s *ScheduleExportService) Generate(ctx context.Context, scheduleID string, format ScheduleExportFormat) (*ScheduleExportResult, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	slots, err := s.slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	dataset := buildScheduleDataset(slots)
	title := fmt.Sprintf("Semester Schedule v%d", schedule.Version)

	var payload []byte
	switch format {
	case ScheduleExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ScheduleExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported export format %s", format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("schedule_%s_%s.%s", scheduleID, time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(scheduleID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ScheduleExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/timetable/exports/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ScheduleExportService) ParseToken(token string, allowExpired bool) (scheduleID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored export file.
func (s *ScheduleExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes export files older than ttl (defaults to ResultTTL).
func (s *ScheduleExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildScheduleDataset(slots []models.SemesterScheduleSlot) export.Dataset {
	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		teacher := ""
		if slot.TeacherID != nil {
			teacher = *slot.TeacherID
		}
		rows = append(rows, map[string]string{
			"Course":    slot.CourseCode,
			"Component": slot.ComponentID,
			"Day":       slot.DayOfWeek,
			"Start":     slot.StartTime,
			"End":       slot.EndTime,
			"Room":      slot.RoomID,
			"Professor": teacher,
		})
	}
	return export.Dataset{
		Headers: []string{"Course", "Component", "Day", "Start", "End", "Room", "Professor"},
		Rows:    rows,
	}
}
