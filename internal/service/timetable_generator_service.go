package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/unsa-dacc/cb-ttp-engine/internal/dto"
	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	"github.com/unsa-dacc/cb-ttp-engine/internal/solver"
	appErrors "github.com/unsa-dacc/cb-ttp-engine/pkg/errors"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/jobs"
)

// Run lifecycle states surfaced through dto.GenerateTimetableResponse.Status.
const (
	RunStatusQueued    = "queued"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// timetableGenerateJob is the queue payload for an asynchronously-run
// generation request (spec section 6, large-instance path).
const timetableGenerateJobType = "timetable.generate"

type timetableGenerateJob struct {
	RunID  string
	TermID string
	Input  dto.TimetableInput
	Params dto.SolverParams
}

type timetableSemesterRepo interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.SemesterSchedule) error
	ListByTerm(ctx context.Context, termID string) ([]models.SemesterSchedule, error)
	FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SemesterScheduleStatus, meta types.JSONText) error
}

type timetableSlotRepo interface {
	UpsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error)
}

type timetableTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	RunTTL time.Duration

	// Queue, when non-nil, is used to run generation in the background for
	// instances whose course count exceeds AsyncThreshold. A nil Queue keeps
	// every request synchronous regardless of AsyncThreshold.
	Queue          *jobs.Queue
	AsyncThreshold int

	// Cache, when non-nil, backs the read-heavy List/GetSlots endpoints.
	// It cannot back the run store itself: a held run carries the raw
	// *solver.Instance/*solver.Timetable, and Component.Sibling is a
	// pointer cycle (THEORY <-> LAB) that encoding/json cannot marshal.
	Cache *CacheService
}

// TimetableGeneratorService runs the GA solver against a caller-supplied
// instance and persists the accepted run as a versioned semester schedule.
// It mirrors the teacher's propose/commit split: Generate runs the solver
// and holds the winning timetable in memory; Commit validates a term and
// writes it to durable storage inside one transaction.
type TimetableGeneratorService struct {
	terms     termReader
	semesters timetableSemesterRepo
	slots     timetableSlotRepo
	tx        timetableTxProvider
	validator *validator.Validate
	logger    *zap.Logger
	runs      *timetableRunStore
	cache     *CacheService

	queue          *jobs.Queue
	asyncThreshold int
}

// NewTimetableGeneratorService wires the solver's I/O boundary. When
// cfg.Queue is set and the caller-supplied instance has more courses than
// cfg.AsyncThreshold, Generate enqueues the solve instead of blocking the
// request goroutine; the caller polls GetRun for completion.
func NewTimetableGeneratorService(
	terms termReader,
	semesters timetableSemesterRepo,
	slots timetableSlotRepo,
	tx timetableTxProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableGeneratorConfig,
) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 30 * time.Minute
	}
	svc := &TimetableGeneratorService{
		terms:          terms,
		semesters:      semesters,
		slots:          slots,
		tx:             tx,
		validator:      validate,
		logger:         logger,
		runs:           newTimetableRunStore(cfg.RunTTL),
		cache:          cfg.Cache,
		queue:          cfg.Queue,
		asyncThreshold: cfg.AsyncThreshold,
	}
	return svc
}

// HandleAsyncJob is the jobs.Handler a caller registers with cfg.Queue; it
// runs the solve for a queued job and updates the held run in place.
func (s *TimetableGeneratorService) HandleAsyncJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(timetableGenerateJob)
	if !ok {
		return appErrors.Clone(appErrors.ErrInternal, "unexpected job payload type")
	}

	output, diagnostics, inst, best, err := s.solve(payload.TermID, payload.Input, payload.Params)
	if err != nil {
		s.runs.Save(timetableRun{
			RunID:       payload.RunID,
			TermID:      payload.TermID,
			Status:      RunStatusFailed,
			Err:         err.Error(),
			RequestedAt: time.Now().UTC(),
		})
		s.logger.Error("async timetable generation failed",
			zap.String("runId", payload.RunID), zap.String("termId", payload.TermID), zap.Error(err))
		return nil
	}

	s.runs.Save(timetableRun{
		RunID:       payload.RunID,
		TermID:      payload.TermID,
		Instance:    inst,
		Best:        best,
		Output:      output,
		Diagnostics: diagnostics,
		Status:      RunStatusCompleted,
		RequestedAt: time.Now().UTC(),
	})
	return nil
}

// Generate loads the instance, runs the GA to completion, and holds the
// winning timetable for a subsequent Commit. When a queue is configured and
// the request has more courses than the async threshold, it instead holds a
// queued run, enqueues the solve, and returns the run id with status queued. Malformed input (spec section
// 7 item 1) and out-of-range parameters (item 3) surface as ErrValidation;
// infeasibility is never an error, it shows up in Diagnostics.Violations.
func (s *TimetableGeneratorService) Generate(ctx context.Context, termID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if s.terms != nil {
		if _, err := s.terms.FindByID(ctx, termID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
		}
	}

	runID := uuid.NewString()

	if s.queue != nil && len(req.Input.Courses) > s.asyncThreshold {
		s.runs.Save(timetableRun{
			RunID:       runID,
			TermID:      termID,
			Status:      RunStatusQueued,
			RequestedAt: time.Now().UTC(),
		})
		job := jobs.Job{
			ID:      runID,
			Type:    timetableGenerateJobType,
			Payload: timetableGenerateJob{RunID: runID, TermID: termID, Input: req.Input, Params: req.Params},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.runs.Delete(runID)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue generation request")
		}
		s.logger.Info("queued timetable generation",
			zap.String("termId", termID), zap.String("runId", runID), zap.Int("courses", len(req.Input.Courses)))
		return &dto.GenerateTimetableResponse{RunID: runID, Status: RunStatusQueued}, nil
	}

	output, diagnostics, inst, best, err := s.solve(termID, req.Input, req.Params)
	if err != nil {
		return nil, err
	}

	s.runs.Save(timetableRun{
		RunID:       runID,
		TermID:      termID,
		Instance:    inst,
		Best:        best,
		Output:      output,
		Diagnostics: diagnostics,
		Status:      RunStatusCompleted,
		RequestedAt: time.Now().UTC(),
	})

	return &dto.GenerateTimetableResponse{
		RunID:       runID,
		Status:      RunStatusCompleted,
		Output:      output,
		Diagnostics: diagnostics,
	}, nil
}

// solve runs the GA to completion against a caller-supplied instance. It is
// shared by the synchronous Generate path and HandleAsyncJob.
func (s *TimetableGeneratorService) solve(termID string, input dto.TimetableInput, rawParams dto.SolverParams) (dto.TimetableOutput, dto.Diagnostics, *solver.Instance, *solver.Timetable, error) {
	inst, err := solver.LoadInstance(buildRawInput(input))
	if err != nil {
		return dto.TimetableOutput{}, dto.Diagnostics{}, nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable instance")
	}

	params := mergeEvolveParams(rawParams)
	if err := solver.ValidateParams(params); err != nil {
		return dto.TimetableOutput{}, dto.Diagnostics{}, nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solver parameters")
	}

	s.logger.Info("starting timetable generation",
		zap.String("termId", termID),
		zap.Int("popSize", params.PopSize),
		zap.Int("generations", params.Generations),
	)

	outcome, err := solver.Evolve(inst, params)
	if err != nil {
		return dto.TimetableOutput{}, dto.Diagnostics{}, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "evolution run failed")
	}

	if outcome.BestResult.HardCost > 0 {
		s.logger.Warn("generation finished without a feasible timetable",
			zap.String("termId", termID),
			zap.Float64("hardCost", outcome.BestResult.HardCost),
		)
	}

	output := solver.BuildOutput(inst, outcome.Best)
	diagnostics := dto.Diagnostics{
		HardCost:    outcome.BestResult.HardCost,
		SoftCost:    outcome.BestResult.SoftCost,
		Fitness:     outcome.BestResult.Fitness,
		Violations:  map[string]int(outcome.BestResult.Diagnostics),
		Generations: outcome.GenerationsRun,
	}
	return output, diagnostics, inst, outcome.Best, nil
}

// GetRun reports the current status of a held generation run, queued or
// otherwise. Callers poll this after a "queued" Generate response.
func (s *TimetableGeneratorService) GetRun(ctx context.Context, termID, runID string) (*dto.GenerateTimetableResponse, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found or expired")
	}
	if run.TermID != termID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run does not belong to this term")
	}
	return &dto.GenerateTimetableResponse{
		RunID:       run.RunID,
		Status:      run.Status,
		Output:      run.Output,
		Diagnostics: run.Diagnostics,
		Error:       run.Err,
	}, nil
}

// Commit persists a previously generated run as a new draft version of the
// term's semester schedule, one row per scheduled component.
func (s *TimetableGeneratorService) Commit(ctx context.Context, termID, runID string) (*models.SemesterSchedule, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found or expired")
	}
	if run.TermID != termID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run does not belong to this term")
	}
	switch run.Status {
	case RunStatusQueued:
		return nil, appErrors.Clone(appErrors.ErrConflict, "generation run is still in progress")
	case RunStatusFailed:
		return nil, appErrors.Clone(appErrors.ErrConflict, "generation run failed: "+run.Err)
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	metaPayload := map[string]any{
		"runId":       run.RunID,
		"generatedAt": run.RequestedAt,
		"diagnostics": run.Diagnostics,
		"statistics":  run.Output.Statistics,
	}
	metaBytes, err := json.Marshal(metaPayload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule metadata")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	record := &models.SemesterSchedule{
		TermID: termID,
		RunID:  run.RunID,
		Status: models.SemesterScheduleStatusDraft,
		Meta:   types.JSONText(metaBytes),
	}
	if err = s.semesters.CreateVersioned(ctx, tx, record); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester schedule")
		return nil, err
	}

	slotModels := buildSlotModels(run.Instance, run.Best, record.ID)
	if err = s.slots.UpsertBatch(ctx, tx, slotModels); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist semester schedule slots")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		return nil, err
	}

	s.runs.Delete(runID)
	s.invalidateScheduleCaches(ctx, termID, record.ID)
	return record, nil
}

// List returns semester schedules generated for a term.
func (s *TimetableGeneratorService) List(ctx context.Context, termID string) ([]models.SemesterSchedule, error) {
	if termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}

	cacheKey := makeTimetableCacheKey("schedules", termID)
	var cached []models.SemesterSchedule
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.logger.Warn("schedule list cache get failed", zap.String("termId", termID), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	list, err := s.semesters.ListByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedules")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, list, 0); err != nil {
			s.logger.Warn("schedule list cache set failed", zap.String("termId", termID), zap.Error(err))
		}
	}
	return list, nil
}

// GetSlots returns the persisted slot rows for a stored schedule version.
func (s *TimetableGeneratorService) GetSlots(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	if scheduleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	if _, err := s.semesters.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester schedule")
	}

	cacheKey := makeTimetableCacheKey("slots", scheduleID)
	var cached []models.SemesterScheduleSlot
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.logger.Warn("schedule slots cache get failed", zap.String("scheduleId", scheduleID), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	slots, err := s.slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedule slots")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, slots, 0); err != nil {
			s.logger.Warn("schedule slots cache set failed", zap.String("scheduleId", scheduleID), zap.Error(err))
		}
	}
	return slots, nil
}

// Publish promotes a draft schedule version to published status.
func (s *TimetableGeneratorService) Publish(ctx context.Context, scheduleID string) error {
	record, err := s.semesters.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester schedule")
	}
	if record.Status != models.SemesterScheduleStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft schedules can be published")
	}
	if err := s.semesters.UpdateStatus(ctx, nil, scheduleID, models.SemesterScheduleStatusPublished, nil); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish semester schedule")
	}
	s.invalidateScheduleCaches(ctx, record.TermID, scheduleID)
	return nil
}

// Delete removes a draft schedule version.
func (s *TimetableGeneratorService) Delete(ctx context.Context, scheduleID string) error {
	record, err := s.semesters.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester schedule")
	}
	if record.Status != models.SemesterScheduleStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft schedules can be deleted")
	}
	if err := s.semesters.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete semester schedule")
	}
	s.invalidateScheduleCaches(ctx, record.TermID, scheduleID)
	return nil
}

// invalidateScheduleCaches drops the cached term listing and slot detail for
// a schedule whose status or existence just changed.
func (s *TimetableGeneratorService) invalidateScheduleCaches(ctx context.Context, termID, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, makeTimetableCacheKey("schedules", termID)+"*"); err != nil {
		s.logger.Warn("failed to invalidate schedule list cache", zap.String("termId", termID), zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, makeTimetableCacheKey("slots", scheduleID)+"*"); err != nil {
		s.logger.Warn("failed to invalidate schedule slots cache", zap.String("scheduleId", scheduleID), zap.Error(err))
	}
}

// makeTimetableCacheKey mirrors the teacher's makeAnalyticsCacheKey shape:
// colon-joined, non-empty parts only.
func makeTimetableCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.WriteString("timetable")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

func buildRawInput(in dto.TimetableInput) solver.RawInput {
	periods := make([]solver.RawPeriod, len(in.Periods))
	for i, p := range in.Periods {
		periods[i] = solver.RawPeriod{DayOfWeek: p.DayOfWeek, StartTime: p.StartTime, EndTime: p.EndTime}
	}

	rooms := make([]solver.RawRoom, len(in.Classrooms))
	for i, r := range in.Classrooms {
		rooms[i] = solver.RawRoom{RoomCode: r.RoomCode, RoomName: r.RoomName, RoomType: r.RoomType, Capacity: r.Capacity}
	}

	instructors := make([]solver.RawInstructor, len(in.Professors))
	for i, p := range in.Professors {
		availabilities := make([]solver.RawAvailability, len(p.Availabilities))
		for j, a := range p.Availabilities {
			availabilities[j] = solver.RawAvailability{DayOfWeek: a.DayOfWeek, StartTime: a.StartTime, EndTime: a.EndTime}
		}
		instructors[i] = solver.RawInstructor{
			ID:             p.ProfessorID,
			Name:           p.Name,
			Availabilities: availabilities,
			PreferredShift: p.PreferredShift,
		}
	}

	courses := make([]solver.RawCourse, len(in.Courses))
	for i, c := range in.Courses {
		courses[i] = solver.RawCourse{
			CourseCode:    c.CourseCode,
			CourseName:    c.CourseName,
			TheoryHours:   c.TheoryHours,
			LabHours:      c.LabHours,
			Professors:    c.Professors,
			Year:          c.Year,
			Prerequisites: c.Prerequisites,
			StudentCount:  c.StudentCount,
		}
	}

	prefs := solver.Preferences{
		PreferredShift: in.Preferences.PreferredShift,
		PreferredDays:  in.Preferences.PreferredDays,
		PreferredSlots: in.Preferences.PreferredSlots,
	}

	var weights *solver.Weights
	if in.Weights != nil {
		w := solver.DefaultWeights()
		if in.Weights.M > 0 {
			w.M = in.Weights.M
		}
		for id, v := range in.Weights.Hard {
			w.Hard[id] = v
		}
		for id, v := range in.Weights.Soft {
			w.Soft[id] = v
		}
		if in.Weights.EnableCurriculumClash != nil {
			w.EnableCurriculumClash = *in.Weights.EnableCurriculumClash
		}
		if in.Weights.EnableExtendedSoftConstraints != nil {
			w.EnableExtendedSoftConstraints = *in.Weights.EnableExtendedSoftConstraints
		}
		weights = &w
	}

	return solver.RawInput{
		Metadata:    in.Metadata,
		Periods:     periods,
		Rooms:       rooms,
		Instructors: instructors,
		Courses:     courses,
		Preferences: prefs,
		Curricula:   in.Curricula,
		Weights:     weights,
	}
}

func mergeEvolveParams(p dto.SolverParams) solver.EvolveParams {
	out := solver.DefaultEvolveParams()
	if p.PopSize > 0 {
		out.PopSize = p.PopSize
	}
	if p.Generations > 0 {
		out.Generations = p.Generations
	}
	if p.TournamentK > 0 {
		out.TournamentK = p.TournamentK
	}
	if p.PCross > 0 {
		out.PCross = p.PCross
	}
	if p.PMut > 0 {
		out.PMut = p.PMut
	}
	if p.Seed != 0 {
		out.Seed = p.Seed
	}
	if p.Workers > 0 {
		out.Workers = p.Workers
	}
	return out
}

// buildSlotModels flattens the solver's component-keyed assignments into
// persisted slot rows, one per scheduled block.
func buildSlotModels(inst *solver.Instance, t *solver.Timetable, scheduleID string) []models.SemesterScheduleSlot {
	slots := make([]models.SemesterScheduleSlot, 0)
	for _, c := range inst.Components {
		for _, a := range t.Assignments[c.ID] {
			period := inst.PeriodByKey[a.PeriodKey]
			if period == nil {
				continue
			}
			var teacherID *string
			if a.InstructorID != "" {
				id := a.InstructorID
				teacherID = &id
			}
			slots = append(slots, models.SemesterScheduleSlot{
				SemesterScheduleID: scheduleID,
				ComponentID:        c.ID,
				CourseCode:         c.CourseCode,
				DayOfWeek:          period.DayCode,
				StartTime:          period.Start,
				EndTime:            period.End,
				RoomID:             a.RoomID,
				TeacherID:          teacherID,
			})
		}
	}
	return slots
}

// timetableRun holds one generation result, queued/completed/failed,
// pending a Commit.
type timetableRun struct {
	RunID       string
	TermID      string
	Instance    *solver.Instance
	Best        *solver.Timetable
	Output      dto.TimetableOutput
	Diagnostics dto.Diagnostics
	Status      string
	Err         string
	RequestedAt time.Time
}

type timetableRunStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableRun
}

func newTimetableRunStore(ttl time.Duration) *timetableRunStore {
	return &timetableRunStore{ttl: ttl, items: make(map[string]timetableRun)}
}

func (s *timetableRunStore) Save(run timetableRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[run.RunID] = run
}

func (s *timetableRunStore) Get(id string) (timetableRun, bool) {
	s.mu.RLock()
	run, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableRun{}, false
	}
	if time.Since(run.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableRun{}, false
	}
	return run, true
}

func (s *timetableRunStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
