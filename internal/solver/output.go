package solver

import (
	"sort"

	"github.com/unsa-dacc/cb-ttp-engine/internal/dto"
)

// BuildOutput maps a solved Timetable to the spec section 6 output
// contract: metadata passthrough, schedule[] sorted by (day, start_time,
// course_code), statistics, plus the additive byCurriculum breakdown
// supplemented from original_source's save_schedule_as_json.
func BuildOutput(inst *Instance, t *Timetable) dto.TimetableOutput {
	entries := make([]dto.ScheduleEntry, 0)
	coursesWithTheory := map[string]bool{}
	coursesWithLab := map[string]bool{}
	courses := map[string]bool{}

	for _, c := range inst.Components {
		courses[c.CourseCode] = true
		if c.Kind == ComponentTheory {
			coursesWithTheory[c.CourseCode] = true
		} else {
			coursesWithLab[c.CourseCode] = true
		}
		for _, a := range t.Assignments[c.ID] {
			p := inst.PeriodByKey[a.PeriodKey]
			room := inst.RoomByID[a.RoomID]
			if p == nil || room == nil {
				continue
			}
			entries = append(entries, dto.ScheduleEntry{
				CourseCode:    c.CourseCode,
				CourseName:    c.CourseName,
				Year:          c.Year,
				DayOfWeek:     p.DayCode,
				StartTime:     p.Start,
				EndTime:       p.End,
				ClassroomCode: room.ID,
				ClassroomType: string(room.Kind),
				ProfessorID:   a.InstructorID,
				StudentCount:  c.Enrollment,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		pi, pj := entries[i], entries[j]
		di, dj := dayOrder[pi.DayOfWeek], dayOrder[pj.DayOfWeek]
		if di != dj {
			return di < dj
		}
		if pi.StartTime != pj.StartTime {
			return pi.StartTime < pj.StartTime
		}
		return pi.CourseCode < pj.CourseCode
	})

	out := dto.TimetableOutput{
		Metadata: inst.Metadata,
		Schedule: entries,
		Statistics: dto.Statistics{
			TotalCourses:      len(courses),
			TotalSessions:     len(entries),
			CoursesWithTheory: len(coursesWithTheory),
			CoursesWithLab:    len(coursesWithLab),
		},
	}

	if len(inst.Curricula) > 0 {
		out.ByCurriculum = buildByCurriculum(inst, entries)
	}
	return out
}

func buildByCurriculum(inst *Instance, entries []dto.ScheduleEntry) map[string][]dto.ScheduleEntry {
	byCourse := map[string][]string{}
	for curriculum, codes := range inst.Curricula {
		for _, code := range codes {
			byCourse[code] = append(byCourse[code], curriculum)
		}
	}
	result := map[string][]dto.ScheduleEntry{}
	for _, e := range entries {
		for _, curriculum := range byCourse[e.CourseCode] {
			result[curriculum] = append(result[curriculum], e)
		}
	}
	return result
}
