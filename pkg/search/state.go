package search

import (
	"github.com/limaJavier/smartscheduler/pkg/model"
)

type sessionStatus uint8

const (
	unassigned sessionStatus = iota
	tentative                // Assigned, propagation pending
	committed                // Assigned and survived propagation
)

type removal struct {
	session int
	value   int
}

// state is the mutable search state owned by exactly one worker
type state struct {
	problem *problem

	alive    [][]bool // Per session, whether each domain value is still consistent
	size     []int    // Amount of alive values per session
	assigned []int    // Index of the chosen domain value, or -1
	status   []sessionStatus
	trail    []removal

	teacherHours []float64
	teacherDay   [][]int // Teacher x Weekday session count
	groupDay     [][]int // Group x Weekday session count
}

func newState(p *problem) *state {
	m := p.model
	s := &state{
		problem:      p,
		alive:        make([][]bool, len(m.Sessions)),
		size:         make([]int, len(m.Sessions)),
		assigned:     make([]int, len(m.Sessions)),
		status:       make([]sessionStatus, len(m.Sessions)),
		trail:        make([]removal, 0, len(m.Sessions)*8),
		teacherHours: make([]float64, len(m.Teachers)),
		teacherDay:   make([][]int, len(m.Teachers)),
		groupDay:     make([][]int, len(m.Groups)),
	}
	for session, domain := range m.Domains {
		s.alive[session] = make([]bool, len(domain))
		for i := range domain {
			s.alive[session][i] = true
		}
		s.size[session] = len(domain)
		s.assigned[session] = -1
	}
	for teacher := range s.teacherDay {
		s.teacherDay[teacher] = make([]int, p.days)
	}
	for group := range s.groupDay {
		s.groupDay[group] = make([]int, p.days)
	}
	return s
}

// selectSession picks the unassigned session with the fewest alive values, the first declared on ties.
// It returns -1 once every session is assigned.
func (s *state) selectSession() int {
	best := -1
	for session := range s.size {
		if s.status[session] != unassigned {
			continue
		}
		if best < 0 || s.size[session] < s.size[best] {
			best = session
		}
	}
	return best
}

func (s *state) aliveValues(session int) []int {
	values := make([]int, 0, s.size[session])
	for i, alive := range s.alive[session] {
		if alive {
			values = append(values, i)
		}
	}
	return values
}

func (s *state) remove(session, value int) {
	s.alive[session][value] = false
	s.size[session]--
	s.trail = append(s.trail, removal{session: session, value: value})
}

// assign places the session on one of its values and forward checks every unassigned session.
// On false the caller must unassign with the trail mark taken before the call.
func (s *state) assign(session, index int) bool {
	m := s.problem.model
	value := m.Domains[session][index]
	slot := m.Slots[value.Timeslot]
	teacher, group := m.Sessions[session].Teacher, m.Sessions[session].Group

	s.assigned[session] = index
	s.status[session] = tentative
	s.teacherHours[teacher] += slot.Hours
	s.teacherDay[teacher][slot.Day]++
	s.groupDay[group][slot.Day]++

	if !s.propagate(session, value) {
		return false
	}
	s.status[session] = committed
	return true
}

func (s *state) unassign(session, mark int) {
	m := s.problem.model
	for len(s.trail) > mark {
		last := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.alive[last.session][last.value] = true
		s.size[last.session]++
	}

	value := m.Domains[session][s.assigned[session]]
	slot := m.Slots[value.Timeslot]
	teacher, group := m.Sessions[session].Teacher, m.Sessions[session].Group
	s.teacherHours[teacher] -= slot.Hours
	s.teacherDay[teacher][slot.Day]--
	s.groupDay[group][slot.Day]--

	s.assigned[session] = -1
	s.status[session] = unassigned
}

func (s *state) propagate(session int, value model.Value) bool {
	p := s.problem
	m := p.model
	config := m.Config
	slot := m.Slots[value.Timeslot]
	teacher, group := m.Sessions[session].Teacher, m.Sessions[session].Group

	remainingHours := p.maxHours[teacher] - s.teacherHours[teacher]
	teacherFull := config.MaxSessionsPerDayTeacher > 0 && s.teacherDay[teacher][slot.Day] >= config.MaxSessionsPerDayTeacher
	groupFull := config.MaxSessionsPerDayGroup > 0 && s.groupDay[group][slot.Day] >= config.MaxSessionsPerDayGroup

	for other := range m.Sessions {
		if s.status[other] != unassigned {
			continue
		}
		conflicting := p.conflicting[session][other]
		after := p.follows[other][session]
		before := p.follows[session][other]
		sameTeacher := m.Sessions[other].Teacher == teacher
		sameGroup := m.Sessions[other].Group == group

		for i, candidate := range m.Domains[other] {
			if !s.alive[other][i] {
				continue
			}
			candidateSlot := m.Slots[candidate.Timeslot]

			// Remove the candidate when:
			// - it takes the same timeslot as a conflicting session or the same room at the same timeslot
			// - it breaks the strict ordering with the assigned session
			// - it exceeds the teacher's remaining weekly hours
			// - its day is already full for the teacher or the group
			if (candidate.Timeslot == value.Timeslot && (conflicting || candidate.Room == value.Room)) ||
				(after && candidateSlot.Order <= slot.Order) ||
				(before && candidateSlot.Order >= slot.Order) ||
				(sameTeacher && candidateSlot.Hours > remainingHours+hoursEpsilon) ||
				(sameTeacher && teacherFull && candidateSlot.Day == slot.Day) ||
				(sameGroup && groupFull && candidateSlot.Day == slot.Day) {
				s.remove(other, i)
			}
		}

		if s.size[other] == 0 {
			return false
		}
	}

	// The teacher's unassigned sessions must still fit in the remaining hours
	required := 0.0
	for _, other := range p.teacherSessions[teacher] {
		if s.status[other] == unassigned {
			required += p.minHours(other, func(i int) bool { return s.alive[other][i] })
		}
	}
	return required <= remainingHours+hoursEpsilon
}

func (s *state) assignment() model.Assignment {
	m := s.problem.model
	assignment := make(model.Assignment, len(m.Sessions))
	for session, index := range s.assigned {
		if index < 0 {
			assignment[session] = model.Unassigned
			continue
		}
		assignment[session] = m.Domains[session][index]
	}
	return assignment
}
