package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallEvolveParams() EvolveParams {
	return EvolveParams{
		PopSize:     10,
		Generations: 5,
		TournamentK: 3,
		PCross:      0.8,
		PMut:        0.2,
		Seed:        99,
		Workers:     1,
	}
}

func TestEvolveRejectsOutOfRangeParams(t *testing.T) {
	_, err := Evolve(&Instance{}, EvolveParams{PopSize: 0})
	require.Error(t, err)
}

func TestEvolveBestMonotonicity(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)

	outcome, err := Evolve(inst, smallEvolveParams())
	require.NoError(t, err)

	for i := 1; i < len(outcome.BestPerGenFit); i++ {
		assert.LessOrEqual(t, outcome.BestPerGenFit[i], outcome.BestPerGenFit[i-1])
	}
}

func TestEvolveIsDeterministicGivenSeed(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)

	p := smallEvolveParams()
	o1, err := Evolve(inst, p)
	require.NoError(t, err)
	o2, err := Evolve(inst, p)
	require.NoError(t, err)

	assert.Equal(t, o1.Best, o2.Best)
	assert.Equal(t, o1.BestResult, o2.BestResult)
}

func TestEvolveShapeInvariantHolds(t *testing.T) {
	raw := scenarioARaw()
	raw.Rooms = append(raw.Rooms, RawRoom{RoomCode: "L1", RoomType: "LAB", Capacity: 25})
	raw.Courses[0].LabHours = 2
	inst, err := LoadInstance(raw)
	require.NoError(t, err)

	outcome, err := Evolve(inst, smallEvolveParams())
	require.NoError(t, err)
	for _, c := range inst.Components {
		assert.Len(t, outcome.Best.Assignments[c.ID], c.RequiredBlocks)
	}
}

func TestEvolveParallelWorkersStillTerminate(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)

	p := smallEvolveParams()
	p.Workers = 4
	outcome, err := Evolve(inst, p)
	require.NoError(t, err)
	assert.NotNil(t, outcome.Best)
	assert.Equal(t, p.Generations, outcome.GenerationsRun)
}

func TestBuildOutputSortedAndPopulated(t *testing.T) {
	inst, err := LoadInstance(scenarioARaw())
	require.NoError(t, err)
	outcome, err := Evolve(inst, smallEvolveParams())
	require.NoError(t, err)

	out := BuildOutput(inst, outcome.Best)
	assert.Equal(t, 1, out.Statistics.TotalCourses)
	assert.NotEmpty(t, out.Schedule)
	for i := 1; i < len(out.Schedule); i++ {
		a, b := out.Schedule[i-1], out.Schedule[i]
		assert.True(t, dayOrder[a.DayOfWeek] <= dayOrder[b.DayOfWeek])
	}
}
