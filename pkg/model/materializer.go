package model

import (
	"cmp"
	"fmt"
	"slices"
)

// ScheduleEntry is the human-readable form of one placed session
type ScheduleEntry struct {
	CourseId   string     `json:"course_id"`
	Course     string     `json:"course"`
	Type       CourseType `json:"type"`
	Session    int        `json:"session"` // 1-based occurrence number within the course
	TeacherId  string     `json:"teacher_id"`
	Teacher    string     `json:"teacher"`
	Group      string     `json:"group"`
	RoomId     string     `json:"room_id"`
	Room       string     `json:"room"`
	TimeslotId string     `json:"timeslot_id"`
	Day        Weekday    `json:"day"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
}

// Materialize turns a complete assignment into one entry per session, ordered by weekday,
// then start time, then session index. It fails rather than dropping any session.
func Materialize(model *Model, assignment Assignment) ([]ScheduleEntry, error) {
	if len(assignment) != len(model.Sessions) {
		return nil, fmt.Errorf("cannot materialize: assignment covers %d sessions but the model has %d", len(assignment), len(model.Sessions))
	}

	type indexedEntry struct {
		session int
		start   int
		entry   ScheduleEntry
	}

	entries := make([]indexedEntry, 0, len(assignment))
	for session, value := range assignment {
		if value.Timeslot < 0 || value.Timeslot >= len(model.Timeslots) || value.Room < 0 || value.Room >= len(model.Rooms) {
			return nil, fmt.Errorf("cannot materialize: session %d is not assigned", session)
		}

		course := model.Courses[model.Sessions[session].Course]
		teacher := model.Teachers[model.Sessions[session].Teacher]
		room := model.Rooms[value.Room]
		timeslot := model.Timeslots[value.Timeslot]

		entries = append(entries, indexedEntry{
			session: session,
			start:   model.Slots[value.Timeslot].Start,
			entry: ScheduleEntry{
				CourseId:   course.Id,
				Course:     course.Name,
				Type:       course.Type,
				Session:    model.Sessions[session].Ordinal + 1,
				TeacherId:  teacher.Id,
				Teacher:    teacher.Name,
				Group:      model.Groups[model.Sessions[session].Group].Id,
				RoomId:     room.Id,
				Room:       room.Name,
				TimeslotId: timeslot.Id,
				Day:        timeslot.Day,
				Start:      timeslot.Start,
				End:        timeslot.End,
			},
		})
	}

	slices.SortFunc(entries, func(a, b indexedEntry) int {
		return cmp.Or(
			cmp.Compare(a.entry.Day, b.entry.Day),
			cmp.Compare(a.start, b.start),
			cmp.Compare(a.session, b.session),
		)
	})

	schedule := make([]ScheduleEntry, len(entries))
	for i, entry := range entries {
		schedule[i] = entry.entry
	}
	return schedule, nil
}
