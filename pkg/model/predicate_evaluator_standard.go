package model

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	model *Model
}

func NewPredicateEvaluator(model *Model) PredicateEvaluator {
	return &predicateEvaluatorStandard{
		model: model,
	}
}

func (evaluator *predicateEvaluatorStandard) SameTeacher(session1, session2 int) bool {
	return evaluator.model.Sessions[session1].Teacher == evaluator.model.Sessions[session2].Teacher
}

func (evaluator *predicateEvaluatorStandard) SameGroup(session1, session2 int) bool {
	return evaluator.model.Sessions[session1].Group == evaluator.model.Sessions[session2].Group
}

func (evaluator *predicateEvaluatorStandard) Incompatible(session1, session2 int) bool {
	course1, course2 := evaluator.model.Sessions[session1].Course, evaluator.model.Sessions[session2].Course
	return evaluator.model.Incompatible[course1][course2]
}

func (evaluator *predicateEvaluatorStandard) Follows(session1, session2 int) bool {
	course1, course2 := evaluator.model.Sessions[session1].Course, evaluator.model.Sessions[session2].Course
	return evaluator.model.Precedence[course1][course2]
}

func (evaluator *predicateEvaluatorStandard) TeacherAvailable(session, timeslot int) bool {
	return evaluator.model.Availability[evaluator.model.Sessions[session].Teacher][timeslot]
}

func (evaluator *predicateEvaluatorStandard) Compatible(session, room int) bool {
	course := evaluator.model.Courses[evaluator.model.Sessions[session].Course]
	roomType, ok := evaluator.model.Config.TypeCompatibility[course.Type]
	return ok && evaluator.model.Rooms[room].Type == roomType
}

func (evaluator *predicateEvaluatorStandard) Fits(session, room int) bool {
	course := evaluator.model.Courses[evaluator.model.Sessions[session].Course]
	return course.ExpectedStudents <= evaluator.model.Rooms[room].Capacity
}

func (evaluator *predicateEvaluatorStandard) Equipped(session, room int) bool {
	if !evaluator.model.Config.EnforceEquipment {
		return true
	}
	course := evaluator.model.Courses[evaluator.model.Sessions[session].Course]
	equipment := lo.Map(evaluator.model.Rooms[room].Equipment, func(tag string, _ int) string { return strings.ToLower(tag) })
	return lo.EveryBy(course.RequiredEquipment, func(tag string) bool {
		return slices.Contains(equipment, strings.ToLower(tag))
	})
}

func (evaluator *predicateEvaluatorStandard) Excluded(session, timeslot int) bool {
	config := evaluator.model.Config
	slot := evaluator.model.Slots[timeslot]
	course := evaluator.model.Courses[evaluator.model.Sessions[session].Course]

	if !config.working(slot.Day) || (config.ExcludeLunch && slot.Lunch) {
		return true
	}

	excluded := func(category string) bool {
		return strings.EqualFold(category, slot.Category) || (strings.EqualFold(category, "lunch") && slot.Lunch)
	}
	return lo.SomeBy(config.ExcludedCategories, excluded) || lo.SomeBy(course.ExcludedCategories, excluded)
}

func (evaluator *predicateEvaluatorStandard) Conflicting(session1, session2 int) bool {
	return session1 != session2 &&
		(evaluator.SameTeacher(session1, session2) ||
			evaluator.SameGroup(session1, session2) ||
			evaluator.Incompatible(session1, session2))
}
