package solver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var dayOrder = map[string]int{
	"MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6, "SUN": 7,
}

// RawPeriod is the ingestion collaborator's period record (spec section 6).
type RawPeriod struct {
	DayOfWeek string
	StartTime string
	EndTime   string
}

// RawAvailability is one open teaching window for a professor.
type RawAvailability struct {
	DayOfWeek string
	StartTime string
	EndTime   string
}

// RawRoom is the ingestion collaborator's classroom record.
type RawRoom struct {
	RoomCode string
	RoomName string
	RoomType string
	Capacity int
}

// RawInstructor is the ingestion collaborator's professor record, plus the
// supplemented per-instructor preferred shift (SPEC_FULL.md section 4).
type RawInstructor struct {
	ID             string
	Name           string
	Availabilities []RawAvailability
	PreferredShift string
}

// RawCourse is the ingestion collaborator's course record, split at load
// time into THEORY/LAB components.
type RawCourse struct {
	CourseCode    string
	CourseName    string
	TheoryHours   int
	LabHours      int
	Professors    []string
	Year          int
	Prerequisites []string
	StudentCount  int
}

// RawInput bundles every collaborator-supplied input (spec section 6).
type RawInput struct {
	Metadata    any
	Periods     []RawPeriod
	Rooms       []RawRoom
	Instructors []RawInstructor
	Courses     []RawCourse
	Preferences Preferences
	Curricula   map[string][]string
	Weights     *Weights // nil means use DefaultWeights()
}

// LoadInstance normalizes raw input into a read-only Instance. It is the
// only place malformed input (spec section 7, item 1) is detected.
func LoadInstance(in RawInput) (*Instance, error) {
	if len(in.Periods) == 0 {
		return nil, &ValidationError{Field: "periods", Msg: "at least one period is required"}
	}
	if len(in.Rooms) == 0 {
		return nil, &ValidationError{Field: "classrooms", Msg: "at least one classroom is required"}
	}
	if len(in.Courses) == 0 {
		return nil, &ValidationError{Field: "courses", Msg: "at least one course is required"}
	}

	periods, periodByKey, periodsByDay, err := buildPeriods(in.Periods)
	if err != nil {
		return nil, err
	}

	rooms, roomByID, roomsByKind, err := buildRooms(in.Rooms)
	if err != nil {
		return nil, err
	}

	instructors, instructorByID, err := buildInstructors(in.Instructors, periodByKey)
	if err != nil {
		return nil, err
	}

	components, componentByID, err := buildComponents(in.Courses, instructorByID)
	if err != nil {
		return nil, err
	}

	weights := DefaultWeights()
	if in.Weights != nil {
		weights = *in.Weights
	}

	inst := &Instance{
		Metadata:       in.Metadata,
		Periods:        periods,
		PeriodByKey:    periodByKey,
		PeriodsByDay:   periodsByDay,
		Rooms:          rooms,
		RoomByID:       roomByID,
		RoomsByKind:    roomsByKind,
		Instructors:    instructors,
		InstructorByID: instructorByID,
		Components:     components,
		ComponentByID:  componentByID,
		Curricula:      in.Curricula,
		Preferences:    in.Preferences,
		Weights:        weights,
	}

	assignPriorityScores(inst)
	return inst, nil
}

// PeriodKey builds the canonical "<DAY>_<START>_<END>" internal key (spec
// section 6).
func PeriodKey(dayCode, start, end string) string {
	return fmt.Sprintf("%s_%s_%s", dayCode, start, end)
}

func dayCodeOf(dayOfWeek string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(dayOfWeek))
	if len(code) > 3 {
		code = code[:3]
	}
	if _, ok := dayOrder[code]; !ok {
		return "", &ValidationError{Field: "day_of_week", Msg: fmt.Sprintf("unrecognized day %q", dayOfWeek)}
	}
	return code, nil
}

func parseHHMM(s string) (minutes, hour int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, &ValidationError{Field: "time", Msg: fmt.Sprintf("not HH:MM: %q", s)}
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, &ValidationError{Field: "time", Msg: fmt.Sprintf("not HH:MM: %q", s)}
	}
	return h*60 + m, h, nil
}

func buildPeriods(raw []RawPeriod) ([]Period, map[string]*Period, map[int][]*Period, error) {
	periods := make([]Period, 0, len(raw))
	for _, r := range raw {
		dayCode, err := dayCodeOf(r.DayOfWeek)
		if err != nil {
			return nil, nil, nil, err
		}
		startMin, startHour, err := parseHHMM(r.StartTime)
		if err != nil {
			return nil, nil, nil, err
		}
		endMin, _, err := parseHHMM(r.EndTime)
		if err != nil {
			return nil, nil, nil, err
		}
		if endMin <= startMin {
			return nil, nil, nil, &ValidationError{Field: "periods", Msg: fmt.Sprintf("end_time must be after start_time for %s %s-%s", r.DayOfWeek, r.StartTime, r.EndTime)}
		}
		periods = append(periods, Period{
			Key:          PeriodKey(dayCode, r.StartTime, r.EndTime),
			DayCode:      dayCode,
			Day:          dayOrder[dayCode],
			Start:        r.StartTime,
			End:          r.EndTime,
			StartMinutes: startMin,
			EndMinutes:   endMin,
			StartHour:    startHour,
		})
	}

	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Day != periods[j].Day {
			return periods[i].Day < periods[j].Day
		}
		return periods[i].StartMinutes < periods[j].StartMinutes
	})

	periodByKey := make(map[string]*Period, len(periods))
	periodsByDay := make(map[int][]*Period)
	for i := range periods {
		periods[i].order = i
	}
	for i := range periods {
		p := &periods[i]
		if _, dup := periodByKey[p.Key]; dup {
			return nil, nil, nil, &ValidationError{Field: "periods", Msg: fmt.Sprintf("duplicate period %s", p.Key)}
		}
		p.dayIndex = len(periodsByDay[p.Day])
		periodsByDay[p.Day] = append(periodsByDay[p.Day], p)
		periodByKey[p.Key] = p
	}
	return periods, periodByKey, periodsByDay, nil
}

func buildRooms(raw []RawRoom) ([]Room, map[string]*Room, map[RoomKind][]*Room, error) {
	rooms := make([]Room, 0, len(raw))
	roomByID := make(map[string]*Room, len(raw))
	roomsByKind := make(map[RoomKind][]*Room)

	for _, r := range raw {
		kind := RoomKind(strings.ToUpper(strings.TrimSpace(r.RoomType)))
		if kind != RoomTheory && kind != RoomLab {
			return nil, nil, nil, &ValidationError{Field: "room_type", Msg: fmt.Sprintf("unknown room type %q", r.RoomType)}
		}
		if r.Capacity <= 0 {
			return nil, nil, nil, &ValidationError{Field: "capacity", Msg: fmt.Sprintf("room %s must have positive capacity", r.RoomCode)}
		}
		rooms = append(rooms, Room{ID: r.RoomCode, Kind: kind, Capacity: r.Capacity})
	}
	for i := range rooms {
		if _, dup := roomByID[rooms[i].ID]; dup {
			return nil, nil, nil, &ValidationError{Field: "classrooms", Msg: fmt.Sprintf("duplicate room_code %s", rooms[i].ID)}
		}
		roomByID[rooms[i].ID] = &rooms[i]
		roomsByKind[rooms[i].Kind] = append(roomsByKind[rooms[i].Kind], &rooms[i])
	}
	return rooms, roomByID, roomsByKind, nil
}

func buildInstructors(raw []RawInstructor, periodByKey map[string]*Period) ([]Instructor, map[string]*Instructor, error) {
	instructors := make([]Instructor, 0, len(raw))
	for _, r := range raw {
		avail := make(map[string]struct{})
		for _, a := range r.Availabilities {
			dayCode, err := dayCodeOf(a.DayOfWeek)
			if err != nil {
				return nil, nil, err
			}
			startMin, _, err := parseHHMM(a.StartTime)
			if err != nil {
				return nil, nil, err
			}
			endMin, _, err := parseHHMM(a.EndTime)
			if err != nil {
				return nil, nil, err
			}
			// Intersect the raw interval with the period grid (spec section 3):
			// every period whose window falls within [start,end) is available.
			for _, p := range periodByKey {
				if p.DayCode != dayCode {
					continue
				}
				if p.StartMinutes >= startMin && p.EndMinutes <= endMin {
					avail[p.Key] = struct{}{}
				}
			}
		}
		instructors = append(instructors, Instructor{
			ID:             r.ID,
			Name:           r.Name,
			Availability:   avail,
			PreferredShift: strings.ToLower(strings.TrimSpace(r.PreferredShift)),
		})
	}
	instructorByID := make(map[string]*Instructor, len(instructors))
	for i := range instructors {
		if _, dup := instructorByID[instructors[i].ID]; dup {
			return nil, nil, &ValidationError{Field: "professors", Msg: fmt.Sprintf("duplicate professor_id %s", instructors[i].ID)}
		}
		instructorByID[instructors[i].ID] = &instructors[i]
	}
	return instructors, instructorByID, nil
}

// buildComponents splits each course into THEORY/LAB components (spec
// section 3), wiring Sibling back-references for H9.
func buildComponents(raw []RawCourse, instructorByID map[string]*Instructor) ([]*Component, map[string]*Component, error) {
	var components []*Component
	componentByID := make(map[string]*Component)

	for _, c := range raw {
		if c.CourseCode == "" {
			return nil, nil, &ValidationError{Field: "course_code", Msg: "course_code is required"}
		}
		var eligible []string
		for _, pid := range c.Professors {
			if _, ok := instructorByID[pid]; !ok {
				return nil, nil, &ValidationError{Field: "professors", Msg: fmt.Sprintf("course %s references unknown professor %s", c.CourseCode, pid)}
			}
			eligible = append(eligible, pid)
		}

		var theory, lab *Component
		if c.TheoryHours > 0 {
			theory = &Component{
				ID:                  c.CourseCode + "_THEORY",
				CourseCode:          c.CourseCode,
				CourseName:          c.CourseName,
				Kind:                ComponentTheory,
				RequiredBlocks:      c.TheoryHours,
				EligibleInstructors: eligible,
				Enrollment:          c.StudentCount,
				RequiredRoomKind:    RoomTheory,
				Year:                c.Year,
			}
		}
		if c.LabHours > 0 {
			lab = &Component{
				ID:                  c.CourseCode + "_LAB",
				CourseCode:          c.CourseCode,
				CourseName:          c.CourseName,
				Kind:                ComponentLab,
				RequiredBlocks:      c.LabHours,
				EligibleInstructors: eligible,
				Enrollment:          c.StudentCount,
				RequiredRoomKind:    RoomLab,
				Year:                c.Year,
			}
		}
		// Parent/child linkage (design note: direct back-reference at split
		// time, not decoded from ids at runtime).
		if theory != nil && lab != nil {
			theory.Sibling = lab
			lab.Sibling = theory
		}
		for _, comp := range []*Component{theory, lab} {
			if comp == nil {
				continue
			}
			components = append(components, comp)
			componentByID[comp.ID] = comp
		}
	}

	return components, componentByID, nil
}

// assignPriorityScores computes each component's TSSP priority score (spec
// section 4.3) now that eligible rooms are known instance-wide.
func assignPriorityScores(inst *Instance) {
	for _, c := range inst.Components {
		nInstructors := len(c.EligibleInstructors)
		if nInstructors == 0 {
			nInstructors = 1
		}
		nRooms := len(inst.RoomsByKind[c.RequiredRoomKind])
		if nRooms == 0 {
			nRooms = 1
		}
		c.PriorityScore = PriorityWeightResource/float64(nInstructors*nRooms) +
			PriorityWeightBlocks*float64(c.RequiredBlocks) +
			PriorityWeightYear*float64(c.Year)

		if inst.Curricula != nil {
			for curriculum, codes := range inst.Curricula {
				for _, code := range codes {
					if code == c.CourseCode {
						c.Curricula = append(c.Curricula, curriculum)
					}
				}
			}
		}
	}
}
