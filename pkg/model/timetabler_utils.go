package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Verify re-checks an assignment against every hard constraint of the model, independently
// of the timetabler that produced it
func Verify(model *Model, assignment Assignment) error {
	if len(assignment) != len(model.Sessions) {
		return ViolationError{Violations: []Violation{{
			Session: -1,
			Reason:  fmt.Sprintf("assignment covers %d sessions but the model has %d", len(assignment), len(model.Sessions)),
		}}}
	}

	evaluator := NewPredicateEvaluator(model)
	violations := make([]Violation, 0)
	report := func(session int, format string, args ...any) {
		violations = append(violations, Violation{Session: session, Reason: fmt.Sprintf(format, args...)})
	}

	//** Initialize assistance
	teacherHours := make([]float64, len(model.Teachers))
	teacherDaily := make(map[[2]int]int)
	groupDaily := make(map[[2]int]int)
	roomAssistance := make(map[Value]int)

	for session, value := range assignment {
		if value.Timeslot < 0 || value.Timeslot >= len(model.Timeslots) || value.Room < 0 || value.Room >= len(model.Rooms) {
			report(session, "not assigned")
			continue
		}

		// Check that:
		// - Room type matches the course type
		// - Course fits in the room
		// - Room carries the required equipment
		// - Teacher is available at the timeslot
		// - Timeslot is not excluded for the session
		if !evaluator.Compatible(session, value.Room) {
			report(session, "room %v has an incompatible type", model.Rooms[value.Room].Id)
		}
		if !evaluator.Fits(session, value.Room) {
			report(session, "room %v is too small", model.Rooms[value.Room].Id)
		}
		if !evaluator.Equipped(session, value.Room) {
			report(session, "room %v lacks required equipment", model.Rooms[value.Room].Id)
		}
		if !evaluator.TeacherAvailable(session, value.Timeslot) {
			report(session, "teacher unavailable at %v", model.Timeslots[value.Timeslot].Id)
		}
		if evaluator.Excluded(session, value.Timeslot) {
			report(session, "timeslot %v is excluded", model.Timeslots[value.Timeslot].Id)
		}

		if previous, ok := roomAssistance[value]; ok {
			report(session, "room %v already taken by session %d", model.Rooms[value.Room].Id, previous)
		}
		roomAssistance[value] = session

		day := int(model.Slots[value.Timeslot].Day)
		teacher, group := model.Sessions[session].Teacher, model.Sessions[session].Group
		teacherHours[teacher] += model.Slots[value.Timeslot].Hours
		teacherDaily[[2]int{teacher, day}]++
		groupDaily[[2]int{group, day}]++
	}

	//** Check pairwise constraints
	for session1, value1 := range assignment {
		for session2 := session1 + 1; session2 < len(assignment); session2++ {
			value2 := assignment[session2]
			if value1.Timeslot < 0 || value2.Timeslot < 0 {
				continue
			}
			if value1.Timeslot == value2.Timeslot && evaluator.Conflicting(session1, session2) {
				report(session1, "collides with session %d at %v", session2, model.Timeslots[value1.Timeslot].Id)
			}
			order1, order2 := model.Slots[value1.Timeslot].Order, model.Slots[value2.Timeslot].Order
			if evaluator.Follows(session1, session2) && order1 <= order2 {
				report(session1, "scheduled before its prerequisite session %d", session2)
			}
			if evaluator.Follows(session2, session1) && order2 <= order1 {
				report(session2, "scheduled before its prerequisite session %d", session1)
			}
		}
	}

	//** Check workload caps
	for teacher, hours := range teacherHours {
		if hours > model.Teachers[teacher].MaxHours {
			report(-1, "teacher %v works %.1fh over a cap of %.1fh", model.Teachers[teacher].Id, hours, model.Teachers[teacher].MaxHours)
		}
	}
	if limit := model.Config.MaxSessionsPerDayTeacher; limit > 0 {
		for key, count := range teacherDaily {
			if count > limit {
				report(-1, "teacher %v has %d sessions on %v", model.Teachers[key[0]].Id, count, Weekday(key[1]))
			}
		}
	}
	if limit := model.Config.MaxSessionsPerDayGroup; limit > 0 {
		for key, count := range groupDaily {
			if count > limit {
				report(-1, "group %v has %d sessions on %v", model.Groups[key[0]].Id, count, Weekday(key[1]))
			}
		}
	}

	if len(violations) > 0 {
		return ViolationError{Violations: violations}
	}
	return nil
}

// LargestMatching returns the size of a maximum matching of the bipartite graph between
// left and right nodes (given by their counts) where neighbors states adjacency
func LargestMatching(left, right int, neighbors func(left, right int) bool) (int, error) {
	if left == 0 || right == 0 {
		return 0, nil
	}

	leftAny, rightAny := lo.Map(lo.Range(left), func(node int, _ int) any { return node }), lo.Map(lo.Range(right), func(node int, _ int) any { return node })

	graph, err := bipartitegraph.NewBipartiteGraph(leftAny, rightAny, func(leftNode any, rightNode any) (bool, error) {
		return neighbors(leftNode.(int), rightNode.(int)), nil
	})
	if err != nil {
		return 0, err
	}

	return len(graph.LargestMatching()), nil
}
