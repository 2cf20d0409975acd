package sat

import (
	"github.com/limaJavier/smartscheduler/pkg/model"
)

// encoding maps a model onto boolean variables:
//   - x(s,t,r) holds when session s takes room r at timeslot t
//   - y(s,t) holds when session s takes timeslot t in any room
type encoding struct {
	model     *model.Model
	evaluator model.PredicateEvaluator
	indexer   model.Indexer

	timeslots [][]int         // Per session, the distinct timeslots of its domain in domain order
	rooms     []map[int][]int // Per session and timeslot, the admissible rooms
}

func newEncoding(m *model.Model) *encoding {
	e := &encoding{
		model:     m,
		evaluator: model.NewPredicateEvaluator(m),
		indexer:   model.NewIndexer(uint64(len(m.Sessions)), uint64(len(m.Timeslots)), uint64(max(len(m.Rooms), 1))),
		timeslots: make([][]int, len(m.Sessions)),
		rooms:     make([]map[int][]int, len(m.Sessions)),
	}
	for session, domain := range m.Domains {
		e.rooms[session] = make(map[int][]int)
		for _, value := range domain {
			if _, ok := e.rooms[session][value.Timeslot]; !ok {
				e.timeslots[session] = append(e.timeslots[session], value.Timeslot)
			}
			e.rooms[session][value.Timeslot] = append(e.rooms[session][value.Timeslot], value.Room)
		}
	}
	return e
}

func (e *encoding) variables() uint64 {
	return e.indexer.Size() + uint64(len(e.model.Sessions)*len(e.model.Timeslots))
}

func (e *encoding) x(session, timeslot, room int) int64 {
	return int64(e.indexer.Index(uint64(session), uint64(timeslot), uint64(room)))
}

func (e *encoding) y(session, timeslot int) int64 {
	return int64(e.indexer.Size()) + int64(session*len(e.model.Timeslots)+timeslot) + 1
}

// decode reads the placement of every session from the positive x literals
func (e *encoding) decode(solution SATSolution) model.Assignment {
	assignment := make(model.Assignment, len(e.model.Sessions))
	for session := range assignment {
		assignment[session] = model.Unassigned
	}
	for _, literal := range solution {
		if literal <= 0 || uint64(literal) > e.indexer.Size() {
			continue
		}
		session, timeslot, room := e.indexer.Attributes(uint64(literal))
		s, t, r := int(session), int(timeslot), int(room)
		for _, admissible := range e.rooms[s][t] {
			if admissible == r {
				assignment[s] = model.Value{Timeslot: t, Room: r}
				break
			}
		}
	}
	return assignment
}

// Every session takes at least one timeslot
func completenessConstraints(e *encoding) [][]int64 {
	clauses := make([][]int64, 0, len(e.timeslots))
	for session, timeslots := range e.timeslots {
		clause := make([]int64, 0, len(timeslots))
		for _, timeslot := range timeslots {
			clause = append(clause, e.y(session, timeslot))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// Every session takes at most one timeslot and at most one room within it
func uniquenessConstraints(e *encoding) [][]int64 {
	clauses := make([][]int64, 0)
	for session, timeslots := range e.timeslots {
		for i := range timeslots {
			for j := i + 1; j < len(timeslots); j++ {
				clauses = append(clauses, []int64{-e.y(session, timeslots[i]), -e.y(session, timeslots[j])})
			}

			rooms := e.rooms[session][timeslots[i]]
			for a := range rooms {
				for b := a + 1; b < len(rooms); b++ {
					clauses = append(clauses, []int64{-e.x(session, timeslots[i], rooms[a]), -e.x(session, timeslots[i], rooms[b])})
				}
			}
		}
	}
	return clauses
}

// y(s,t) holds exactly when some x(s,t,r) does
func channellingConstraints(e *encoding) [][]int64 {
	clauses := make([][]int64, 0)
	for session, timeslots := range e.timeslots {
		for _, timeslot := range timeslots {
			rooms := e.rooms[session][timeslot]
			some := make([]int64, 0, len(rooms)+1)
			some = append(some, -e.y(session, timeslot))
			for _, room := range rooms {
				clauses = append(clauses, []int64{-e.x(session, timeslot, room), e.y(session, timeslot)})
				some = append(some, e.x(session, timeslot, room))
			}
			clauses = append(clauses, some)
		}
	}
	return clauses
}

// Sessions sharing a teacher or a group, or belonging to incompatible courses, never share a timeslot
func clashConstraints(e *encoding) [][]int64 {
	clauses := make([][]int64, 0)
	for a := range e.timeslots {
		for b := a + 1; b < len(e.timeslots); b++ {
			if !e.evaluator.Conflicting(a, b) {
				continue
			}
			for _, timeslot := range e.timeslots[a] {
				if _, ok := e.rooms[b][timeslot]; ok {
					clauses = append(clauses, []int64{-e.y(a, timeslot), -e.y(b, timeslot)})
				}
			}
		}
	}
	return clauses
}

// A room hosts at most one session per timeslot
func roomConstraints(e *encoding) [][]int64 {
	clauses := make([][]int64, 0)
	for a := range e.timeslots {
		for b := a + 1; b < len(e.timeslots); b++ {
			// Already kept apart by the clash constraints
			if e.evaluator.Conflicting(a, b) {
				continue
			}
			for _, timeslot := range e.timeslots[a] {
				shared, ok := e.rooms[b][timeslot]
				if !ok {
					continue
				}
				for _, room := range e.rooms[a][timeslot] {
					for _, other := range shared {
						if room == other {
							clauses = append(clauses, []int64{-e.x(a, timeslot, room), -e.x(b, timeslot, room)})
						}
					}
				}
			}
		}
	}
	return clauses
}

// A session following another (by prerequisite or by ordinal within its course) takes a strictly later timeslot
func orderingConstraints(e *encoding) [][]int64 {
	m := e.model
	clauses := make([][]int64, 0)
	for a := range e.timeslots {
		for b := range e.timeslots {
			if a == b {
				continue
			}
			sameCourse := m.Sessions[a].Course == m.Sessions[b].Course && m.Sessions[a].Ordinal > m.Sessions[b].Ordinal
			if !sameCourse && !e.evaluator.Follows(a, b) {
				continue
			}
			for _, after := range e.timeslots[a] {
				for _, before := range e.timeslots[b] {
					if m.Slots[after].Order <= m.Slots[before].Order {
						clauses = append(clauses, []int64{-e.y(a, after), -e.y(b, before)})
					}
				}
			}
		}
	}
	return clauses
}

var constraintFamilies = []func(e *encoding) [][]int64{
	completenessConstraints,
	uniquenessConstraints,
	channellingConstraints,
	clashConstraints,
	roomConstraints,
	orderingConstraints,
}

// buildSat generates every constraint family on its own goroutine and collects the clauses.
// Families are appended in declaration order so the instance is identical across runs.
func buildSat(e *encoding) SAT {
	type generated struct {
		family  int
		clauses [][]int64
	}

	channel := make(chan generated)
	for family, constraints := range constraintFamilies {
		go func() {
			channel <- generated{family: family, clauses: constraints(e)}
		}()
	}

	families := make([][][]int64, len(constraintFamilies))
	for range constraintFamilies {
		result := <-channel
		families[result.family] = result.clauses
	}

	sat := SAT{Variables: e.variables()}
	for _, clauses := range families {
		sat.Clauses = append(sat.Clauses, clauses...)
	}
	return sat
}

// lazyConstraints checks the workload and daily caps over a decoded assignment and returns
// one blocking clause per violation
func lazyConstraints(e *encoding, assignment model.Assignment) [][]int64 {
	m := e.model
	config := m.Config
	clauses := make([][]int64, 0)

	block := func(sessions []int) []int64 {
		clause := make([]int64, 0, len(sessions))
		for _, session := range sessions {
			clause = append(clause, -e.y(session, assignment[session].Timeslot))
		}
		return clause
	}

	teacherSessions := make([][]int, len(m.Teachers))
	hours := make([]float64, len(m.Teachers))
	teacherDay := make(map[[2]int][]int)
	groupDay := make(map[[2]int][]int)
	for session, value := range assignment {
		slot := m.Slots[value.Timeslot]
		teacher, group := m.Sessions[session].Teacher, m.Sessions[session].Group
		teacherSessions[teacher] = append(teacherSessions[teacher], session)
		hours[teacher] += slot.Hours
		teacherDay[[2]int{teacher, int(slot.Day)}] = append(teacherDay[[2]int{teacher, int(slot.Day)}], session)
		groupDay[[2]int{group, int(slot.Day)}] = append(groupDay[[2]int{group, int(slot.Day)}], session)
	}

	for teacher, sessions := range teacherSessions {
		if hours[teacher] > m.Teachers[teacher].MaxHours+hoursEpsilon {
			clauses = append(clauses, block(sessions))
		}
	}
	for _, key := range sortedKeys(teacherDay) {
		if config.MaxSessionsPerDayTeacher > 0 && len(teacherDay[key]) > config.MaxSessionsPerDayTeacher {
			clauses = append(clauses, block(teacherDay[key]))
		}
	}
	for _, key := range sortedKeys(groupDay) {
		if config.MaxSessionsPerDayGroup > 0 && len(groupDay[key]) > config.MaxSessionsPerDayGroup {
			clauses = append(clauses, block(groupDay[key]))
		}
	}
	return clauses
}

// Encode returns the static clauses of the model; workload and daily caps are left out
func Encode(m *model.Model) SAT {
	return buildSat(newEncoding(m))
}
