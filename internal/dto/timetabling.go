package dto

// TimetableInput is the structured record the ingestion collaborator
// produces for the solver (spec section 6). It is a plain data contract —
// no third-party import is needed to describe it.
type TimetableInput struct {
	Metadata any `json:"metadata"`

	Periods     []PeriodInput     `json:"periods" validate:"required,min=1,dive"`
	Classrooms  []ClassroomInput  `json:"classrooms" validate:"required,min=1,dive"`
	Professors  []ProfessorInput  `json:"professors" validate:"required,min=1,dive"`
	Courses     []CourseInput     `json:"courses" validate:"required,min=1,dive"`
	Preferences PreferencesInput  `json:"preferences"`
	Weights     *WeightsOverride  `json:"weights,omitempty"`

	// Curricula supplements spec section 6 with the cohort map original_source
	// carries (curriculum/cohort name -> enrolled course codes), feeding the
	// optional H1 curriculum-clash extension. Omitted entirely when the
	// caller has no curriculum data; H1 then never fires.
	Curricula map[string][]string `json:"curricula,omitempty"`
}

// PeriodInput describes one teaching slot in the period grid.
type PeriodInput struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ClassroomInput describes one room.
type ClassroomInput struct {
	RoomCode string `json:"room_code" validate:"required"`
	RoomName string `json:"room_name,omitempty"`
	RoomType string `json:"room_type" validate:"required,oneof=THEORY LAB"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// AvailabilityInput describes one open teaching window for a professor.
type AvailabilityInput struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ProfessorInput describes one instructor and their availability.
type ProfessorInput struct {
	ProfessorID    string              `json:"professor_id" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	Availabilities []AvailabilityInput `json:"availabilities"`

	// PreferredShift supplements spec section 6 with the per-instructor
	// preference original_source tracks separately from the department-wide
	// preferred_shift (see SPEC_FULL.md section 4).
	PreferredShift string `json:"preferred_shift,omitempty" validate:"omitempty,oneof=morning afternoon"`
}

// CourseInput describes one course before it is split into components.
type CourseInput struct {
	CourseCode    string   `json:"course_code" validate:"required"`
	CourseName    string   `json:"course_name" validate:"required"`
	Credits       int      `json:"credits"`
	TheoryHours   int      `json:"theory_hours" validate:"min=0"`
	LabHours      int      `json:"lab_hours" validate:"min=0"`
	Professors    []string `json:"professors" validate:"required,min=1"`
	Year          int      `json:"year" validate:"min=0"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	StudentCount  int      `json:"student_count" validate:"min=0"`
}

// PreferencesInput captures department- and student-facing preferences.
type PreferencesInput struct {
	PreferredShift string `json:"preferred_shift" validate:"omitempty,oneof=morning afternoon"`
	PreferredDays  []int  `json:"preferred_days,omitempty"`
	PreferredSlots []int  `json:"preferred_slots,omitempty"`
}

// WeightsOverride lets callers override the evaluator's default weights.
type WeightsOverride struct {
	M                             float64            `json:"M,omitempty"`
	Hard                          map[string]float64 `json:"hard,omitempty"`
	Soft                          map[string]float64 `json:"soft,omitempty"`
	EnableCurriculumClash         *bool              `json:"enableCurriculumClash,omitempty"`
	EnableExtendedSoftConstraints *bool              `json:"enableExtendedSoftConstraints,omitempty"`
}

// SolverParams carries the tunable GA parameters surfaced to the outer
// harness (spec section 6).
type SolverParams struct {
	PopSize     int     `json:"popSize,omitempty" validate:"omitempty,min=1"`
	Generations int     `json:"generations,omitempty" validate:"omitempty,min=0"`
	TournamentK int     `json:"tournamentK,omitempty" validate:"omitempty,min=1"`
	PCross      float64 `json:"pCross,omitempty" validate:"omitempty,min=0,max=1"`
	PMut        float64 `json:"pMut,omitempty" validate:"omitempty,min=0,max=1"`
	Seed        int64   `json:"seed,omitempty"`
	Workers     int     `json:"workers,omitempty" validate:"omitempty,min=1"`
}

// GenerateTimetableRequest wraps an instance plus run parameters.
type GenerateTimetableRequest struct {
	Input  TimetableInput `json:"input" validate:"required"`
	Params SolverParams   `json:"params"`
}

// ScheduleEntry is one row of the output schedule (spec section 6).
type ScheduleEntry struct {
	CourseCode     string `json:"course_code"`
	CourseName     string `json:"course_name"`
	Year           int    `json:"year"`
	DayOfWeek      string `json:"day_of_week"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	ClassroomCode  string `json:"classroom_code"`
	ClassroomType  string `json:"classroom_type"`
	ProfessorID    string `json:"professor_id"`
	StudentCount   int    `json:"student_count"`
}

// Statistics summarises the generated schedule (spec section 6).
type Statistics struct {
	TotalCourses      int `json:"total_courses"`
	TotalSessions     int `json:"total_sessions"`
	CoursesWithTheory int `json:"courses_with_theory"`
	CoursesWithLab    int `json:"courses_with_lab"`
}

// Diagnostics reports the evaluator's per-constraint violation counts
// alongside the fitness breakdown.
type Diagnostics struct {
	HardCost    float64        `json:"hard_cost"`
	SoftCost    float64        `json:"soft_cost"`
	Fitness     float64        `json:"fitness"`
	Violations  map[string]int `json:"violations"`
	Generations int            `json:"generations_run"`
}

// TimetableOutput is the record produced for the serialization collaborator
// (spec section 6), plus the per-curriculum breakdown supplemented from
// original_source's save_schedule_as_json.
type TimetableOutput struct {
	Metadata     any                        `json:"metadata"`
	Schedule     []ScheduleEntry            `json:"schedule"`
	Statistics   Statistics                 `json:"statistics"`
	ByCurriculum map[string][]ScheduleEntry `json:"byCurriculum,omitempty"`
}

// GenerateTimetableResponse is the full result of a generation run. Status
// is "completed" for the normal synchronous path and "queued" when the
// instance exceeded the async threshold and is still running in the
// background; GetRun polls a queued run until it flips to "completed" or
// "failed".
type GenerateTimetableResponse struct {
	RunID       string          `json:"runId"`
	Status      string          `json:"status"`
	Output      TimetableOutput `json:"output"`
	Diagnostics Diagnostics     `json:"diagnostics"`
	Error       string          `json:"error,omitempty"`
}
