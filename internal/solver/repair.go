package solver

import (
	"math/rand"
	"sort"
)

type occupant struct {
	componentID string
	index       int
}

// Repair returns a new timetable with strictly fewer H4 (room
// double-booking) violations where possible; all other assignments are
// left unchanged (spec section 4.2). Best-effort, not guaranteed feasible.
func Repair(inst *Instance, t *Timetable, rng *rand.Rand) *Timetable {
	out := t.Clone()

	index := map[string][]occupant{}
	componentIDs := make([]string, 0, len(out.Assignments))
	for id := range out.Assignments {
		componentIDs = append(componentIDs, id)
	}
	sort.Strings(componentIDs)

	for _, cid := range componentIDs {
		for i, a := range out.Assignments[cid] {
			k := roomPeriodKey(a.RoomID, a.PeriodKey)
			index[k] = append(index[k], occupant{componentID: cid, index: i})
		}
	}

	occupiedAtPeriod := map[string]map[string]bool{} // periodKey -> set of roomIDs currently in use
	for _, cid := range componentIDs {
		for _, a := range out.Assignments[cid] {
			if occupiedAtPeriod[a.PeriodKey] == nil {
				occupiedAtPeriod[a.PeriodKey] = map[string]bool{}
			}
			occupiedAtPeriod[a.PeriodKey][a.RoomID] = true
		}
	}

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		occs := index[key]
		if len(occs) <= 1 {
			continue
		}
		for i := 1; i < len(occs); i++ {
			occ := occs[i]
			a := out.Assignments[occ.componentID][occ.index]
			room := inst.RoomByID[a.RoomID]
			if room == nil {
				continue
			}
			alt := pickFreeRoomOfKind(inst, room.Kind, a.PeriodKey, occupiedAtPeriod, rng)
			if alt == nil {
				continue // no alternative exists; leave untouched
			}

			// a.RoomID stays occupied: the first occupant keeps it.
			if occupiedAtPeriod[a.PeriodKey] == nil {
				occupiedAtPeriod[a.PeriodKey] = map[string]bool{}
			}
			occupiedAtPeriod[a.PeriodKey][alt.ID] = true

			a.RoomID = alt.ID
			out.Assignments[occ.componentID][occ.index] = a
		}
	}

	return out
}

func pickFreeRoomOfKind(inst *Instance, kind RoomKind, periodKey string, occupied map[string]map[string]bool, rng *rand.Rand) *Room {
	candidates := make([]*Room, 0)
	for _, room := range inst.RoomsByKind[kind] {
		if occupied[periodKey] != nil && occupied[periodKey][room.ID] {
			continue
		}
		candidates = append(candidates, room)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates[rng.Intn(len(candidates))]
}
