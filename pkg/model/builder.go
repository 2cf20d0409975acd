package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Session is one weekly occurrence of a course
type Session struct {
	Course  int // Dense course index
	Ordinal int // Occurrence number within the course, starting at 0
	Teacher int // Dense teacher index
	Group   int // Dense group index
}

// Value is a candidate (timeslot, room) pair for a session
type Value struct {
	Timeslot int
	Room     int
}

var Unassigned = Value{Timeslot: -1, Room: -1}

type TimeslotInfo struct {
	Day      Weekday
	Position int // Rank within its day by start time
	Order    int // Global rank ordered by day, then position; equal for equal starts
	Start    int // Minutes after midnight
	End      int
	Hours    float64
	Category string
	Lunch    bool
	Morning  bool
}

// Model is the read-only representation consumed by the timetablers. Everything is
// addressed through dense indexes fixed at build time.
type Model struct {
	Courses   []Course
	Teachers  []Teacher
	Rooms     []Room
	Groups    []Group
	Timeslots []Timeslot
	Config    BuildConfig

	Sessions       []Session
	Domains        [][]Value // Per session, ordered by preference
	Availability   [][]bool  // Teacher x Timeslot
	Precedence     [][]bool  // Course x Course: [i][j] holds when course i must follow course j
	Incompatible   [][]bool  // Course x Course, symmetric
	PreferenceRank [][]int   // Teacher x Timeslot: position in the teacher's preferred list or -1
	Slots          []TimeslotInfo

	courseIndex   map[string]int
	teacherIndex  map[string]int
	roomIndex     map[string]int
	groupIndex    map[string]int
	timeslotIndex map[string]int
}

func (model *Model) CourseIndex(id string) (int, bool) {
	index, ok := model.courseIndex[id]
	return index, ok
}

func (model *Model) TimeslotIndex(id string) (int, bool) {
	index, ok := model.timeslotIndex[id]
	return index, ok
}

func (model *Model) RoomIndex(id string) (int, bool) {
	index, ok := model.roomIndex[id]
	return index, ok
}

// SessionsOf returns the sessions expanded from the given course
func (model *Model) SessionsOf(course int) []int {
	sessions := make([]int, 0, model.Courses[course].WeeklySessions)
	for session, candidate := range model.Sessions {
		if candidate.Course == course {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// BuildModel indexes the validated catalog, expands courses into sessions and prunes every
// session's domain with its unary constraints. It performs no search.
func BuildModel(courses []Course, teachers []Teacher, rooms []Room, groups []Group, timeslots []Timeslot, config BuildConfig) (*Model, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if len(config.TypeCompatibility) == 0 {
		config.TypeCompatibility = lo.Assign(DefaultTypeCompatibility)
	}

	model := &Model{
		Courses:   courses,
		Teachers:  teachers,
		Rooms:     rooms,
		Groups:    groups,
		Timeslots: timeslots,
		Config:    config,
	}

	//** Index entities
	var err error
	if model.courseIndex, err = indexIds("course", lo.Map(courses, func(course Course, _ int) string { return course.Id })); err != nil {
		return nil, err
	}
	if model.teacherIndex, err = indexIds("teacher", lo.Map(teachers, func(teacher Teacher, _ int) string { return teacher.Id })); err != nil {
		return nil, err
	}
	if model.roomIndex, err = indexIds("room", lo.Map(rooms, func(room Room, _ int) string { return room.Id })); err != nil {
		return nil, err
	}
	if model.groupIndex, err = indexIds("group", lo.Map(groups, func(group Group, _ int) string { return group.Id })); err != nil {
		return nil, err
	}
	if model.timeslotIndex, err = indexIds("timeslot", lo.Map(timeslots, func(timeslot Timeslot, _ int) string { return timeslot.Id })); err != nil {
		return nil, err
	}

	//** Check cross references
	for _, course := range courses {
		if course.Teacher == "" {
			return nil, ModelBuildError{Field: fmt.Sprintf("course[%v].teacher", course.Id), Reason: "no teacher assigned"}
		} else if _, ok := model.teacherIndex[course.Teacher]; !ok {
			return nil, ModelBuildError{Field: fmt.Sprintf("course[%v].teacher", course.Id), Reason: fmt.Sprintf("teacher %q not found", course.Teacher)}
		} else if _, ok := model.groupIndex[course.Group]; !ok {
			return nil, ModelBuildError{Field: fmt.Sprintf("course[%v].group", course.Id), Reason: fmt.Sprintf("group %q not found", course.Group)}
		} else if _, ok := config.TypeCompatibility[course.Type]; !ok {
			return nil, ModelBuildError{Field: fmt.Sprintf("course[%v].type", course.Id), Reason: fmt.Sprintf("no room type mapped to %q", course.Type)}
		} else if course.WeeklySessions < 1 {
			return nil, ModelBuildError{Field: fmt.Sprintf("course[%v].weekly_sessions", course.Id), Reason: "must be at least 1"}
		}
	}
	for _, room := range rooms {
		if !slices.Contains([]RoomType{LectureHall, TutorialRoom, LabRoom}, room.Type) {
			return nil, ModelBuildError{Field: fmt.Sprintf("room[%v].type", room.Id), Reason: fmt.Sprintf("room type %q not found", room.Type)}
		}
	}

	model.Slots = buildSlots(timeslots, config)
	model.Availability, model.PreferenceRank = buildTeacherMatrices(teachers, model.timeslotIndex, len(timeslots))
	model.Precedence = buildPrecedence(courses, model.courseIndex)
	model.Incompatible = buildIncompatibility(courses, model.courseIndex)

	//** Expand sessions and prune domains
	evaluator := NewPredicateEvaluator(model)
	for courseIndex, course := range courses {
		first := len(model.Sessions)
		for ordinal := range course.WeeklySessions {
			model.Sessions = append(model.Sessions, Session{
				Course:  courseIndex,
				Ordinal: ordinal,
				Teacher: model.teacherIndex[course.Teacher],
				Group:   model.groupIndex[course.Group],
			})
		}

		// Sessions of the same course share their (read-only) domain
		domain := buildDomain(model, evaluator, first)
		for range course.WeeklySessions {
			model.Domains = append(model.Domains, domain)
		}
	}

	return model, nil
}

func indexIds(kind string, ids []string) (map[string]int, error) {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, ModelBuildError{Field: fmt.Sprintf("%v[%d].id", kind, i), Reason: "empty id"}
		} else if _, ok := index[id]; ok {
			return nil, ModelBuildError{Field: fmt.Sprintf("%v[%v].id", kind, id), Reason: "duplicate id"}
		}
		index[id] = i
	}
	return index, nil
}

func buildSlots(timeslots []Timeslot, config BuildConfig) []TimeslotInfo {
	slots := make([]TimeslotInfo, len(timeslots))
	lunchStart := clockMinutes(config.LunchStart)
	for i, timeslot := range timeslots {
		category := strings.ToLower(timeslot.Category)
		slots[i] = TimeslotInfo{
			Day:      timeslot.Day,
			Start:    timeslot.StartMinutes(),
			End:      timeslot.EndMinutes(),
			Hours:    timeslot.Hours(),
			Category: timeslot.Category,
			Lunch:    category == "lunch" || category == "lunch-excluded" || (config.LunchStart != "" && timeslot.StartMinutes() == lunchStart),
			Morning:  category == "morning" || timeslot.StartMinutes() < 12*60,
		}
	}

	order := lo.Range(len(timeslots))
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(slots[a].Day, slots[b].Day),
			cmp.Compare(slots[a].Start, slots[b].Start),
		)
	})

	// Timeslots starting at the same moment share their ranks
	rank, position := -1, -1
	for i, slot := range order {
		if i > 0 && slots[order[i-1]].Day != slots[slot].Day {
			position = -1
		}
		if i == 0 || slots[order[i-1]].Day != slots[slot].Day || slots[order[i-1]].Start != slots[slot].Start {
			rank++
			position++
		}
		slots[slot].Order = rank
		slots[slot].Position = position
	}
	return slots
}

func buildTeacherMatrices(teachers []Teacher, timeslotIndex map[string]int, totalTimeslots int) (availability [][]bool, preferenceRank [][]int) {
	availability = make([][]bool, len(teachers))
	preferenceRank = make([][]int, len(teachers))
	for i, teacher := range teachers {
		availability[i] = lo.Times(totalTimeslots, func(_ int) bool { return true })
		preferenceRank[i] = lo.Times(totalTimeslots, func(_ int) int { return -1 })

		// Unknown timeslot ids are ignored: they cannot be chosen anyway
		for _, id := range teacher.UnavailableSlots {
			if timeslot, ok := timeslotIndex[id]; ok {
				availability[i][timeslot] = false
			}
		}
		rank := 0
		for _, id := range teacher.PreferredSlots {
			if timeslot, ok := timeslotIndex[id]; ok && preferenceRank[i][timeslot] < 0 {
				preferenceRank[i][timeslot] = rank
				rank++
			}
		}
	}
	return availability, preferenceRank
}

func buildPrecedence(courses []Course, courseIndex map[string]int) [][]bool {
	graph := make([][]int, len(courses))
	for i, course := range courses {
		for _, prerequisite := range course.Prerequisites {
			if j, ok := courseIndex[prerequisite]; ok {
				graph[i] = append(graph[i], j)
			}
		}
	}
	return transitiveClosure(graph)
}

func buildIncompatibility(courses []Course, courseIndex map[string]int) [][]bool {
	incompatible := make([][]bool, len(courses))
	for i := range courses {
		incompatible[i] = make([]bool, len(courses))
	}
	for i, course := range courses {
		for _, other := range course.IncompatibleCourses {
			if j, ok := courseIndex[other]; ok && i != j {
				incompatible[i][j] = true
				incompatible[j][i] = true
			}
		}
	}
	return incompatible
}

// buildDomain lists every (timeslot, room) pair the session satisfies on its own, best first
func buildDomain(model *Model, evaluator PredicateEvaluator, session int) []Value {
	teacher := model.Sessions[session].Teacher
	course := model.Courses[model.Sessions[session].Course]

	domain := make([]Value, 0)
	for timeslot := range model.Timeslots {
		if !evaluator.TeacherAvailable(session, timeslot) || evaluator.Excluded(session, timeslot) {
			continue
		}
		// A single session longer than the whole weekly allowance can never be placed
		if model.Slots[timeslot].Hours > model.Teachers[teacher].MaxHours {
			continue
		}
		for room := range model.Rooms {
			if evaluator.Compatible(session, room) && evaluator.Fits(session, room) && evaluator.Equipped(session, room) {
				domain = append(domain, Value{Timeslot: timeslot, Room: room})
			}
		}
	}

	preferenceKey := func(value Value) int {
		rank := model.PreferenceRank[teacher][value.Timeslot]
		if rank < 0 {
			return len(model.Teachers[teacher].PreferredSlots)
		}
		return rank
	}
	categoryKey := func(value Value) int {
		if model.inPreferredCategory(value.Timeslot) {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(domain, func(a, b Value) int {
		return cmp.Or(
			cmp.Compare(preferenceKey(a), preferenceKey(b)),
			cmp.Compare(categoryKey(a), categoryKey(b)),
			cmp.Compare(model.Slots[a.Timeslot].Order, model.Slots[b.Timeslot].Order),
			cmp.Compare(model.Rooms[a.Room].Capacity-course.ExpectedStudents, model.Rooms[b.Room].Capacity-course.ExpectedStudents),
			cmp.Compare(a.Room, b.Room),
		)
	})
	return domain
}

func (model *Model) inPreferredCategory(timeslot int) bool {
	preferred := model.Config.PreferredCategory
	if preferred == "" {
		return true
	}
	slot := model.Slots[timeslot]
	return strings.EqualFold(slot.Category, preferred) || (strings.EqualFold(preferred, "morning") && slot.Morning)
}
