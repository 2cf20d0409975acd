package search

import (
	"math"

	"github.com/limaJavier/smartscheduler/pkg/model"
)

const hoursEpsilon = 1e-9

// problem holds the relations derived once from the model and shared read-only by every worker
type problem struct {
	model     *model.Model
	evaluator model.PredicateEvaluator

	conflicting [][]bool // Session x Session: may not share a timeslot
	follows     [][]bool // Session x Session: [a][b] holds when a must be strictly after b

	teacherSessions [][]int
	groupSessions   [][]int
	maxHours        []float64
	days            int
}

func newProblem(m *model.Model) *problem {
	evaluator := model.NewPredicateEvaluator(m)
	sessions := len(m.Sessions)

	p := &problem{
		model:           m,
		evaluator:       evaluator,
		conflicting:     make([][]bool, sessions),
		follows:         make([][]bool, sessions),
		teacherSessions: make([][]int, len(m.Teachers)),
		groupSessions:   make([][]int, len(m.Groups)),
		maxHours:        make([]float64, len(m.Teachers)),
		days:            int(model.Sunday) + 1,
	}

	for a := range sessions {
		p.conflicting[a] = make([]bool, sessions)
		p.follows[a] = make([]bool, sessions)
		for b := range sessions {
			if a == b {
				continue
			}
			p.conflicting[a][b] = evaluator.Conflicting(a, b)

			// Sessions of one course are interchangeable: keep them in ordinal order
			sameCourse := m.Sessions[a].Course == m.Sessions[b].Course && m.Sessions[a].Ordinal > m.Sessions[b].Ordinal
			p.follows[a][b] = evaluator.Follows(a, b) || sameCourse
		}
		p.teacherSessions[m.Sessions[a].Teacher] = append(p.teacherSessions[m.Sessions[a].Teacher], a)
		p.groupSessions[m.Sessions[a].Group] = append(p.groupSessions[m.Sessions[a].Group], a)
	}

	for teacher := range m.Teachers {
		p.maxHours[teacher] = m.Teachers[teacher].MaxHours
	}
	return p
}

// minHours returns the shortest duration among the values the predicate keeps
func (p *problem) minHours(session int, alive func(value int) bool) float64 {
	least := math.Inf(1)
	for i, value := range p.model.Domains[session] {
		if alive(i) {
			least = math.Min(least, p.model.Slots[value.Timeslot].Hours)
		}
	}
	return least
}
