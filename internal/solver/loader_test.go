package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioARaw() RawInput {
	return RawInput{
		Periods: []RawPeriod{{DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00"}},
		Rooms:   []RawRoom{{RoomCode: "R1", RoomType: "THEORY", Capacity: 40}},
		Instructors: []RawInstructor{
			{ID: "P1", Name: "Prof One", Availabilities: []RawAvailability{{DayOfWeek: "MON", StartTime: "08:00", EndTime: "09:00"}}},
		},
		Courses: []RawCourse{
			{CourseCode: "CS1", CourseName: "Intro", TheoryHours: 2, LabHours: 0, Professors: []string{"P1"}, Year: 1, StudentCount: 30},
		},
		Preferences: Preferences{PreferredShift: "morning"},
	}
}

func TestLoadInstanceScenarioA(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)
	require.Len(t, inst.Components, 1)

	c := inst.Components[0]
	assert.Equal(t, ComponentTheory, c.Kind)
	assert.Equal(t, 2, c.RequiredBlocks)
	assert.Equal(t, RoomTheory, c.RequiredRoomKind)
	assert.Nil(t, c.Sibling)
}

func TestLoadInstanceSplitsTheoryAndLab(t *testing.T) {
	raw := scenarioARaw()
	raw.Rooms = append(raw.Rooms, RawRoom{RoomCode: "L1", RoomType: "LAB", Capacity: 25})
	raw.Courses[0].LabHours = 2

	inst, err := LoadInstance(raw)
	require.NoError(t, err)
	require.Len(t, inst.Components, 2)

	byID := inst.ComponentByID
	theory := byID["CS1_THEORY"]
	lab := byID["CS1_LAB"]
	require.NotNil(t, theory)
	require.NotNil(t, lab)
	assert.Same(t, lab, theory.Sibling)
	assert.Same(t, theory, lab.Sibling)
}

func TestLoadInstanceRejectsUnknownProfessor(t *testing.T) {
	raw := scenarioARaw()
	raw.Courses[0].Professors = []string{"ghost"}
	_, err := LoadInstance(raw)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoadInstanceRejectsMalformedTime(t *testing.T) {
	raw := scenarioARaw()
	raw.Periods[0].StartTime = "not-a-time"
	_, err := LoadInstance(raw)
	require.Error(t, err)
}

func TestLoadInstanceEmptyAvailabilityMeansUnconstrained(t *testing.T) {
	raw := scenarioARaw()
	raw.Instructors[0].Availabilities = nil
	inst, err := LoadInstance(raw)
	require.NoError(t, err)
	instr := inst.InstructorByID["P1"]
	assert.True(t, instr.IsAvailable("MON_08:00_09:00"))
	assert.True(t, instr.IsAvailable("anything"))
}

func TestLoadInstanceNoRoomOfRequiredKind(t *testing.T) {
	raw := scenarioARaw()
	raw.Courses[0].LabHours = 2 // no LAB room configured
	inst, err := LoadInstance(raw)
	require.NoError(t, err)
	lab := inst.ComponentByID["CS1_LAB"]
	require.NotNil(t, lab)
	assert.Empty(t, inst.RoomsByKind[RoomLab])
}
