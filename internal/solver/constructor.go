package solver

import (
	"math/rand"
	"sort"
)

// seedState holds the incremental double-booking counters scoped to the
// construction of a single seed (design note: must be locally owned, never
// process-wide, to permit parallel seeding).
type seedState struct {
	instructorPeriod map[string]int
	roomPeriod       map[string]int
}

func newSeedState() *seedState {
	return &seedState{instructorPeriod: map[string]int{}, roomPeriod: map[string]int{}}
}

func (s *seedState) commit(a Assignment) {
	if a.InstructorID != "" {
		s.instructorPeriod[instructorPeriodKey(a.InstructorID, a.PeriodKey)]++
	}
	s.roomPeriod[roomPeriodKey(a.RoomID, a.PeriodKey)]++
}

// candidate is one (period, room, instructor) placement option under
// consideration for the block currently being placed.
type candidate struct {
	period     *Period
	room       *Room
	instructor string
}

// Construct builds one seed timetable via the TSSP priority-ordered greedy
// procedure (spec section 4.3).
func Construct(inst *Instance, rng *rand.Rand) *Timetable {
	t := NewTimetable(inst.Components)
	state := newSeedState()

	ordered := make([]*Component, len(inst.Components))
	copy(ordered, inst.Components)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PriorityScore != ordered[j].PriorityScore {
			return ordered[i].PriorityScore > ordered[j].PriorityScore
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, c := range ordered {
		placeComponent(inst, t, state, c, rng)
	}
	return t
}

func placeComponent(inst *Instance, t *Timetable, state *seedState, c *Component, rng *rand.Rand) {
	rooms := inst.RoomsByKind[c.RequiredRoomKind]
	ownPeriods := map[string]bool{}

	var siblingAssignments []Assignment
	if c.Sibling != nil {
		siblingAssignments = t.Assignments[c.Sibling.ID]
	}

	for block := 0; block < c.RequiredBlocks; block++ {
		survivors := make([]candidate, 0, len(inst.Periods))
		for i := range inst.Periods {
			p := &inst.Periods[i]
			if ownPeriods[p.Key] {
				continue
			}
			for _, room := range rooms {
				if room.Capacity < c.Enrollment {
					continue // H5
				}
				if state.roomPeriod[roomPeriodKey(room.ID, p.Key)] > 0 {
					continue // incremental H4
				}
				for _, iid := range c.EligibleInstructors {
					instr := inst.InstructorByID[iid]
					if instr != nil && len(instr.Availability) > 0 && !instr.IsAvailable(p.Key) {
						continue // H3
					}
					if state.instructorPeriod[instructorPeriodKey(iid, p.Key)] > 0 {
						continue // incremental H2
					}
					if violatesH9(p, siblingAssignments, inst) {
						continue
					}
					survivors = append(survivors, candidate{period: p, room: room, instructor: iid})
				}
			}
		}

		var chosen candidate
		if len(survivors) == 0 {
			chosen = randomFallback(inst, c, rng)
		} else {
			chosen = pickBestCandidate(inst, c, survivors, t.Assignments[c.ID], rng)
		}

		a := Assignment{PeriodKey: chosen.period.Key, RoomID: chosen.room.ID, InstructorID: chosen.instructor}
		t.Assignments[c.ID] = append(t.Assignments[c.ID], a)
		state.commit(a)
		ownPeriods[chosen.period.Key] = true
	}
}

// violatesH9 reports whether placing the candidate period would conflict
// with the sibling component's already-committed assignments (same day, or
// starts fewer than MinSeparationHours apart across a day boundary), using
// the same rule as the evaluator's H9.
func violatesH9(p *Period, siblingAssignments []Assignment, inst *Instance) bool {
	for _, sa := range siblingAssignments {
		sp := inst.PeriodByKey[sa.PeriodKey]
		if sp == nil {
			continue
		}
		if sp.Day == p.Day {
			return true
		}
		diff := (sp.Day*24 + sp.StartHour) - (p.Day*24 + p.StartHour)
		if diff < 0 {
			diff = -diff
		}
		if diff < MinSeparationHours {
			return true
		}
	}
	return false
}

// localSoftCost scores a candidate by the per-slot soft cost the TSSP
// procedure cares about: S2 + S4 + S6, evaluated only against this
// component's own placements so far (spec section 4.3, step 3).
func localSoftCost(inst *Instance, c *Component, cand candidate, ownAssignments []Assignment) float64 {
	cost := 0.0
	if outsidePreferredShiftForCandidate(inst, c, cand) {
		cost++
	}
	if cand.period.IsExtreme() {
		cost++
	}
	for _, a := range ownAssignments {
		p := inst.PeriodByKey[a.PeriodKey]
		if p == nil || p.Day != cand.period.Day {
			continue
		}
		diff := p.StartHour - cand.period.StartHour
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			cost++
		}
	}
	return cost
}

func outsidePreferredShiftForCandidate(inst *Instance, c *Component, cand candidate) bool {
	shift := inst.Preferences.PreferredShift
	if instr := inst.InstructorByID[cand.instructor]; instr != nil && instr.PreferredShift != "" {
		shift = instr.PreferredShift
	}
	if shift == "" {
		return false
	}
	if shift == "morning" {
		return !cand.period.IsMorning()
	}
	return cand.period.IsMorning()
}

// pickBestCandidate scores every surviving candidate and picks uniformly
// among those tied at the minimum soft cost, capped at TieBreakPoolCap.
// ownAssignments is the component's own blocks placed so far this seed, so
// S4 (same-day close-hours clustering) can actually be scored locally.
func pickBestCandidate(inst *Instance, c *Component, survivors []candidate, ownAssignments []Assignment, rng *rand.Rand) candidate {
	type scored struct {
		cand candidate
		cost float64
	}
	scoredList := make([]scored, len(survivors))
	for i, cand := range survivors {
		scoredList[i] = scored{cand: cand, cost: localSoftCost(inst, c, cand, ownAssignments)}
	}
	sort.SliceStable(scoredList, func(i, j int) bool { return scoredList[i].cost < scoredList[j].cost })

	min := scoredList[0].cost
	poolEnd := 0
	for poolEnd < len(scoredList) && scoredList[poolEnd].cost == min && poolEnd < TieBreakPoolCap {
		poolEnd++
	}
	idx := rng.Intn(poolEnd)
	return scoredList[idx].cand
}

// randomFallback picks a uniformly random (period, room, instructor) of the
// correct room kind, accepting that the resulting seed carries violations
// for the GA to repair (spec section 4.3, step 5).
func randomFallback(inst *Instance, c *Component, rng *rand.Rand) candidate {
	p := &inst.Periods[rng.Intn(len(inst.Periods))]
	rooms := inst.RoomsByKind[c.RequiredRoomKind]
	var room *Room
	if len(rooms) > 0 {
		room = rooms[rng.Intn(len(rooms))]
	} else {
		// No room of the required kind exists at all (spec section 8 boundary
		// behavior): fall back to any room so the solver still terminates;
		// H6 will fire on every assignment for this component.
		room = &inst.Rooms[rng.Intn(len(inst.Rooms))]
	}
	instructor := ""
	if len(c.EligibleInstructors) > 0 {
		instructor = c.EligibleInstructors[rng.Intn(len(c.EligibleInstructors))]
	}
	return candidate{period: p, room: room, instructor: instructor}
}
