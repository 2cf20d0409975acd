package model

// PredicateEvaluator answers the elementary questions every timetabler and the verifier ask
// about sessions, timeslots and rooms
type PredicateEvaluator interface {
	// Checks whether session1 and session2 are taught by the same teacher
	SameTeacher(session1, session2 int) bool

	// Checks whether session1 and session2 are attended by the same group
	SameGroup(session1, session2 int) bool

	// Checks whether the courses of session1 and session2 were declared incompatible
	Incompatible(session1, session2 int) bool

	// Checks whether session1 must be scheduled strictly after session2 (prerequisite closure)
	Follows(session1, session2 int) bool

	// Checks whether the session's teacher is available at the given timeslot
	TeacherAvailable(session, timeslot int) bool

	// Checks whether the room's type is the one mapped to the session's course type
	Compatible(session, room int) bool

	// Checks whether the expected enrollment of the session's course fits in the room
	Fits(session, room int) bool

	// Checks whether the room carries every equipment tag required by the session's course
	Equipped(session, room int) bool

	// Checks whether the timeslot is off limits for the session (non-working day, excluded category or lunch)
	Excluded(session, timeslot int) bool

	// Checks whether session1 and session2 may not share a timeslot
	Conflicting(session1, session2 int) bool
}
