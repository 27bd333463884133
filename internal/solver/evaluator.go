package solver

import "sort"

// instructorPeriodKey and roomPeriodKey build composite map keys for the
// incremental double-booking counters shared by the evaluator, TSSP
// constructor, and repair operator.
func instructorPeriodKey(instructorID, periodKey string) string {
	return instructorID + "\x00" + periodKey
}

func roomPeriodKey(roomID, periodKey string) string {
	return roomID + "\x00" + periodKey
}

// Diagnostics is the per-constraint violation-count map named by spec
// section 4.1's contract.
type Diagnostics map[string]int

// Result bundles the evaluator's full verdict for one timetable.
type Result struct {
	HardCost    float64
	SoftCost    float64
	Fitness     float64
	Diagnostics Diagnostics
}

// Evaluate scores a candidate timetable: fitness = hard_cost + soft_cost,
// plus a diagnostics mapping from constraint id to raw violation count
// (spec section 4.1). Pure and deterministic.
func Evaluate(inst *Instance, t *Timetable) Result {
	diag := Diagnostics{}
	hard := 0.0
	soft := 0.0

	instructorPeriodCount := map[string]int{}
	roomPeriodCount := map[string]int{}

	for _, c := range inst.Components {
		for _, a := range t.Assignments[c.ID] {
			if a.InstructorID != "" {
				instructorPeriodCount[instructorPeriodKey(a.InstructorID, a.PeriodKey)]++
			}
			roomPeriodCount[roomPeriodKey(a.RoomID, a.PeriodKey)]++
		}
	}

	// H2: instructor not double-booked in a period.
	h2 := 0
	for _, n := range instructorPeriodCount {
		if n > 1 {
			h2 += n - 1
		}
	}
	addHard(inst, diag, &hard, "H2", h2)

	// H4: room not double-booked in a period.
	h4 := 0
	for _, n := range roomPeriodCount {
		if n > 1 {
			h4 += n - 1
		}
	}
	addHard(inst, diag, &hard, "H4", h4)

	h3, h5, h6, h7, h8 := 0, 0, 0, 0, 0
	s2, s3, s4, s6 := 0, 0, 0, 0

	for _, c := range inst.Components {
		assigns := t.Assignments[c.ID]

		// H3: instructor availability.
		for _, a := range assigns {
			if a.InstructorID == "" {
				continue
			}
			instr := inst.InstructorByID[a.InstructorID]
			if instr != nil && len(instr.Availability) > 0 && !instr.IsAvailable(a.PeriodKey) {
				h3++
			}
		}

		// H5/H6: room capacity and kind.
		for _, a := range assigns {
			room := inst.RoomByID[a.RoomID]
			if room == nil {
				continue
			}
			if room.Capacity < c.Enrollment {
				h5++
			}
			if room.Kind != c.RequiredRoomKind {
				h6++
			}
		}

		// H7: block count matches required_blocks.
		diff := len(assigns) - c.RequiredBlocks
		if diff < 0 {
			diff = -diff
		}
		h7 += diff

		// H8: every component has >= MIN_BLOCKS assignments.
		if deficit := MinBlocks - len(assigns); deficit > 0 {
			h8 += deficit
		}

		// S2: outside preferred shift.
		for _, a := range assigns {
			p := inst.PeriodByKey[a.PeriodKey]
			if p == nil {
				continue
			}
			if outsidePreferredShift(inst, a.InstructorID, p) {
				s2++
			}
		}

		// S3: component concentrated on a single day (>1 assignment that day).
		if len(assigns) > 1 {
			byDay := map[int]int{}
			for _, a := range assigns {
				if p := inst.PeriodByKey[a.PeriodKey]; p != nil {
					byDay[p.Day]++
				}
			}
			for _, n := range byDay {
				if n > 1 {
					s3 += n
				}
			}
		}

		// S4: two same-day assignments with start-hour difference <= 1.
		s4 += sameDayCloseHours(inst, assigns)

		// S6: extreme hour.
		for _, a := range assigns {
			if p := inst.PeriodByKey[a.PeriodKey]; p != nil && p.IsExtreme() {
				s6++
			}
		}
	}

	addHard(inst, diag, &hard, "H3", h3)
	addHard(inst, diag, &hard, "H5", h5)
	addHard(inst, diag, &hard, "H6", h6)
	addHard(inst, diag, &hard, "H7", h7)
	addHard(inst, diag, &hard, "H8", h8)

	// H9: THEORY/LAB same-course separation.
	h9 := evaluateH9(inst, t)
	addHard(inst, diag, &hard, "H9", h9)

	// H10: contiguous-run shape.
	h10 := evaluateH10(inst, t)
	addHard(inst, diag, &hard, "H10", h10)

	// H1 (optional extension): curriculum clash.
	if inst.Weights.EnableCurriculumClash {
		h1 := evaluateH1(inst, t)
		addHard(inst, diag, &hard, "H1", h1)
	}

	addSoft(inst, diag, &soft, "S2", s2)
	addSoft(inst, diag, &soft, "S3", s3)
	addSoft(inst, diag, &soft, "S4", s4)
	addSoft(inst, diag, &soft, "S6", s6)

	// S1: per-instructor, per-day idle-gap count.
	s1 := evaluateS1(inst, t)
	addSoft(inst, diag, &soft, "S1", s1)

	if inst.Weights.EnableExtendedSoftConstraints {
		s5 := evaluateS5(inst, t)
		addSoft(inst, diag, &soft, "S5", s5)
		s9 := evaluateS9(inst, t)
		addSoft(inst, diag, &soft, "S9", s9)
	}

	return Result{HardCost: hard, SoftCost: soft, Fitness: hard + soft, Diagnostics: diag}
}

func addHard(inst *Instance, diag Diagnostics, hard *float64, id string, count int) {
	if count == 0 {
		return
	}
	diag[id] = count
	*hard += float64(count) * inst.Weights.hard(id)
}

func addSoft(inst *Instance, diag Diagnostics, soft *float64, id string, count int) {
	if count == 0 {
		return
	}
	diag[id] = count
	*soft += float64(count) * inst.Weights.soft(id, 1)
}

// outsidePreferredShift reports whether the assignment falls outside the
// applicable preferred shift: the assigned instructor's own preference when
// set (supplemented per-instructor preference), else the department default.
func outsidePreferredShift(inst *Instance, instructorID string, p *Period) bool {
	shift := inst.Preferences.PreferredShift
	if instr := inst.InstructorByID[instructorID]; instr != nil && instr.PreferredShift != "" {
		shift = instr.PreferredShift
	}
	if shift == "" {
		return false
	}
	if shift == "morning" {
		return !p.IsMorning()
	}
	return p.IsMorning()
}

func sameDayCloseHours(inst *Instance, assigns []Assignment) int {
	count := 0
	for i := 0; i < len(assigns); i++ {
		pi := inst.PeriodByKey[assigns[i].PeriodKey]
		if pi == nil {
			continue
		}
		for j := i + 1; j < len(assigns); j++ {
			pj := inst.PeriodByKey[assigns[j].PeriodKey]
			if pj == nil || pj.Day != pi.Day {
				continue
			}
			diff := pi.StartHour - pj.StartHour
			if diff < 0 {
				diff = -diff
			}
			if diff <= 1 {
				count++
			}
		}
	}
	return count
}

func evaluateH9(inst *Instance, t *Timetable) int {
	violations := 0.0
	seen := map[string]bool{}
	for _, c := range inst.Components {
		if c.Sibling == nil {
			continue
		}
		pairKey := c.ID
		if c.Sibling.ID < pairKey {
			pairKey = c.Sibling.ID
		}
		pairKey += "|" + c.ID + "|" + c.Sibling.ID
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true

		for _, a := range t.Assignments[c.ID] {
			pa := inst.PeriodByKey[a.PeriodKey]
			if pa == nil {
				continue
			}
			for _, b := range t.Assignments[c.Sibling.ID] {
				pb := inst.PeriodByKey[b.PeriodKey]
				if pb == nil {
					continue
				}
				if pa.Day == pb.Day {
					violations++
					continue
				}
				// Hours between the two starts, counting the days between them.
				diff := (pa.Day*24 + pa.StartHour) - (pb.Day*24 + pb.StartHour)
				if diff < 0 {
					diff = -diff
				}
				if diff < MinSeparationHours {
					violations += 0.5
				}
			}
		}
	}
	return int(violations)
}

func evaluateH10(inst *Instance, t *Timetable) int {
	total := 0
	for _, c := range inst.Components {
		byDay := map[int][]*Period{}
		for _, a := range t.Assignments[c.ID] {
			if p := inst.PeriodByKey[a.PeriodKey]; p != nil {
				byDay[p.Day] = append(byDay[p.Day], p)
			}
		}
		for _, periods := range byDay {
			sort.Slice(periods, func(i, j int) bool { return periods[i].dayIndex < periods[j].dayIndex })
			runLen := 1
			flush := func() {
				switch {
				case runLen < MinConsecutiveRun:
					total += MinConsecutiveRun - runLen
				case runLen > MaxConsecutiveRun:
					total += runLen - MaxConsecutiveRun
				}
			}
			for i := 1; i < len(periods); i++ {
				if periods[i].dayIndex == periods[i-1].dayIndex+1 {
					runLen++
					continue
				}
				flush()
				runLen = 1
			}
			if len(periods) > 0 {
				flush()
			}
		}
	}
	return total
}

// evaluateH1 is the optional curriculum-clash extension (SPEC_FULL.md
// section 4): two courses sharing a curriculum may not occupy the same
// period.
func evaluateH1(inst *Instance, t *Timetable) int {
	if len(inst.Curricula) == 0 {
		return 0
	}
	violations := 0
	for _, codes := range inst.Curricula {
		courseSet := map[string]bool{}
		for _, code := range codes {
			courseSet[code] = true
		}
		periodCourse := map[string]map[string]bool{}
		for _, c := range inst.Components {
			if !courseSet[c.CourseCode] {
				continue
			}
			for _, a := range t.Assignments[c.ID] {
				if periodCourse[a.PeriodKey] == nil {
					periodCourse[a.PeriodKey] = map[string]bool{}
				}
				periodCourse[a.PeriodKey][c.CourseCode] = true
			}
		}
		for _, courses := range periodCourse {
			if len(courses) > 1 {
				violations += len(courses) - 1
			}
		}
	}
	return violations
}

// evaluateS1 penalizes, per instructor per day, the idle gaps between the
// instructor's earliest and latest assignment that day (span − count).
func evaluateS1(inst *Instance, t *Timetable) int {
	type key struct {
		instructor string
		day        int
	}
	periodsByInstructorDay := map[key][]int{}

	for _, c := range inst.Components {
		for _, a := range t.Assignments[c.ID] {
			if a.InstructorID == "" {
				continue
			}
			p := inst.PeriodByKey[a.PeriodKey]
			if p == nil {
				continue
			}
			k := key{a.InstructorID, p.Day}
			periodsByInstructorDay[k] = append(periodsByInstructorDay[k], p.dayIndex)
		}
	}

	gaps := 0
	for _, indices := range periodsByInstructorDay {
		sort.Ints(indices)
		span := indices[len(indices)-1] - indices[0] + 1
		gaps += span - len(indices)
	}
	return gaps
}

// evaluateS5 is the optional classroom-utilization-balance extension:
// penalizes rooms used far more than the instance-wide per-room average.
func evaluateS5(inst *Instance, t *Timetable) int {
	usage := map[string]int{}
	total := 0
	for _, c := range inst.Components {
		for _, a := range t.Assignments[c.ID] {
			usage[a.RoomID]++
			total++
		}
	}
	if len(inst.Rooms) == 0 || total == 0 {
		return 0
	}
	avg := float64(total) / float64(len(inst.Rooms))
	over := 0
	for _, n := range usage {
		if d := float64(n) - avg; d > 0 {
			over += int(d)
		}
	}
	return over
}

// evaluateS9 is the optional weekly-day-count extension: penalizes a
// curriculum's assigned days beyond an ideal of IdealCurriculumDays.
func evaluateS9(inst *Instance, t *Timetable) int {
	if len(inst.Curricula) == 0 {
		return 0
	}
	total := 0
	for _, codes := range inst.Curricula {
		courseSet := map[string]bool{}
		for _, code := range codes {
			courseSet[code] = true
		}
		days := map[int]bool{}
		for _, c := range inst.Components {
			if !courseSet[c.CourseCode] {
				continue
			}
			for _, a := range t.Assignments[c.ID] {
				if p := inst.PeriodByKey[a.PeriodKey]; p != nil {
					days[p.Day] = true
				}
			}
		}
		if excess := len(days) - IdealCurriculumDays; excess > 0 {
			total += excess
		}
	}
	return total
}
