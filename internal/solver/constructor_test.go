package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructShapeInvariant(t *testing.T) {
	raw := scenarioARaw()
	raw.Rooms = append(raw.Rooms, RawRoom{RoomCode: "L1", RoomType: "LAB", Capacity: 25})
	raw.Courses[0].LabHours = 2
	inst, err := LoadInstance(raw)
	require.NoError(t, err)

	tt := Construct(inst, NewRand(42))
	for _, c := range inst.Components {
		assert.Len(t, tt.Assignments[c.ID], c.RequiredBlocks)
	}
}

func TestConstructDomainClosure(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)
	tt := Construct(inst, NewRand(7))
	for _, assigns := range tt.Assignments {
		for _, a := range assigns {
			_, ok := inst.PeriodByKey[a.PeriodKey]
			assert.True(t, ok, "period must belong to instance")
			_, ok = inst.RoomByID[a.RoomID]
			assert.True(t, ok, "room must belong to instance")
			if a.InstructorID != "" {
				_, ok = inst.InstructorByID[a.InstructorID]
				assert.True(t, ok, "instructor must belong to instance")
			}
		}
	}
}

func TestConstructIsDeterministicGivenSeed(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)

	t1 := Construct(inst, NewRand(123))
	t2 := Construct(inst, NewRand(123))
	assert.Equal(t, t1, t2)
}

func TestRepairNeverWorsensRoomCollisions(t *testing.T) {
	raw := RawInput{
		Periods: []RawPeriod{{DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00"}},
		Rooms: []RawRoom{
			{RoomCode: "R1", RoomType: "THEORY", Capacity: 40},
			{RoomCode: "R2", RoomType: "THEORY", Capacity: 40},
		},
		Instructors: []RawInstructor{
			{ID: "P1", Name: "A"},
			{ID: "P2", Name: "B"},
		},
		Courses: []RawCourse{
			{CourseCode: "CS1", CourseName: "A", TheoryHours: 1, Professors: []string{"P1"}, StudentCount: 10},
			{CourseCode: "CS2", CourseName: "B", TheoryHours: 1, Professors: []string{"P2"}, StudentCount: 10},
		},
	}
	inst, err := LoadInstance(raw)
	require.NoError(t, err)

	tt := NewTimetable(inst.Components)
	tt.Assignments["CS1_THEORY"] = []Assignment{{PeriodKey: "MON_08:00_09:00", RoomID: "R1", InstructorID: "P1"}}
	tt.Assignments["CS2_THEORY"] = []Assignment{{PeriodKey: "MON_08:00_09:00", RoomID: "R1", InstructorID: "P2"}}

	before := Evaluate(inst, tt)
	repaired := Repair(inst, tt, NewRand(1))
	after := Evaluate(inst, repaired)

	assert.LessOrEqual(t, after.HardCost, before.HardCost)
	assert.Zero(t, after.Diagnostics["H4"])
}
