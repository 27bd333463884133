package solver

import "math/rand"

// TournamentSelect samples k individuals uniformly with replacement and
// returns a deep copy of the lowest-fitness one. Ties are broken by
// first-seen (spec section 4.4).
func TournamentSelect(pop []*Timetable, fitness []float64, k int, rng *rand.Rand) *Timetable {
	bestIdx := rng.Intn(len(pop))
	best := fitness[bestIdx]
	for i := 1; i < k; i++ {
		idx := rng.Intn(len(pop))
		if fitness[idx] < best {
			best = fitness[idx]
			bestIdx = idx
		}
	}
	return pop[bestIdx].Clone()
}

// Crossover performs uniform per-component crossover: for each component, a
// fair coin decides whether its full assignment sequence goes to child-1
// from parent-1 or parent-2; child-2 gets the opposite (spec section 4.4).
func Crossover(inst *Instance, p1, p2 *Timetable, rng *rand.Rand) (*Timetable, *Timetable) {
	c1 := NewTimetable(inst.Components)
	c2 := NewTimetable(inst.Components)
	for _, comp := range inst.Components {
		if rng.Intn(2) == 0 {
			c1.Assignments[comp.ID] = cloneAssignments(p1.Assignments[comp.ID])
			c2.Assignments[comp.ID] = cloneAssignments(p2.Assignments[comp.ID])
		} else {
			c1.Assignments[comp.ID] = cloneAssignments(p2.Assignments[comp.ID])
			c2.Assignments[comp.ID] = cloneAssignments(p1.Assignments[comp.ID])
		}
	}
	return c1, c2
}

func cloneAssignments(a []Assignment) []Assignment {
	cp := make([]Assignment, len(a))
	copy(cp, a)
	return cp
}

// Mutate applies, with per-component probability pm, one of three
// equiprobable point mutations to a uniformly chosen assignment index of
// that component (spec section 4.4). Mutates t in place and returns it.
func Mutate(inst *Instance, t *Timetable, pm float64, rng *rand.Rand) *Timetable {
	for _, c := range inst.Components {
		assigns := t.Assignments[c.ID]
		if len(assigns) == 0 {
			continue
		}
		if rng.Float64() >= pm {
			continue
		}
		idx := rng.Intn(len(assigns))
		switch rng.Intn(3) {
		case 0:
			assigns[idx].PeriodKey = inst.Periods[rng.Intn(len(inst.Periods))].Key
		case 1:
			rooms := inst.RoomsByKind[c.RequiredRoomKind]
			if len(rooms) > 0 {
				assigns[idx].RoomID = rooms[rng.Intn(len(rooms))].ID
			}
		case 2:
			if len(c.EligibleInstructors) > 0 {
				assigns[idx].InstructorID = c.EligibleInstructors[rng.Intn(len(c.EligibleInstructors))]
			}
		}
		t.Assignments[c.ID] = assigns
	}
	return t
}
