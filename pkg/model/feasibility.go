package model

import "github.com/samber/lo"

// DefaultTypeCompatibility maps each course type to the room type able to host it
var DefaultTypeCompatibility = map[CourseType]RoomType{
	Lecture:  LectureHall,
	Tutorial: TutorialRoom,
	Lab:      LabRoom,
}

// CheckFeasibility fails with InfeasibleCapacityError on the first course that no room of
// matching type can seat
func CheckFeasibility(courses []Course, rooms []Room) error {
	return CheckFeasibilityWith(courses, rooms, DefaultTypeCompatibility)
}

func CheckFeasibilityWith(courses []Course, rooms []Room, compatibility map[CourseType]RoomType) error {
	for _, course := range courses {
		roomType, ok := compatibility[course.Type]
		matching := lo.Filter(rooms, func(room Room, _ int) bool {
			return ok && room.Type == roomType
		})

		if lo.SomeBy(matching, func(room Room) bool { return room.Capacity >= course.ExpectedStudents }) {
			continue
		}

		best := 0
		if len(matching) > 0 {
			best = lo.MaxBy(matching, func(a, b Room) bool { return a.Capacity > b.Capacity }).Capacity
		}
		return InfeasibleCapacityError{
			CourseId:      course.Id,
			Required:      course.ExpectedStudents,
			BestAvailable: best,
		}
	}
	return nil
}
