package search

import (
	"fmt"

	"github.com/limaJavier/smartscheduler/pkg/model"
)

// Matchings over more edges than this are skipped; the bound is only a shortcut
const maxMatchingEdges = 4_000_000

// rootBound checks necessary conditions that prove infeasibility before any search. It
// returns a description of the failed bound, or the empty string when every bound holds.
func (p *problem) rootBound() (string, error) {
	m := p.model

	//** Empty domains
	for session, domain := range m.Domains {
		if len(domain) == 0 {
			course := m.Courses[m.Sessions[session].Course]
			return fmt.Sprintf("session %d of course %v has no admissible (timeslot, room) pair", m.Sessions[session].Ordinal+1, course.Id), nil
		}
	}

	//** Teacher workload lower bound
	for teacher, sessions := range p.teacherSessions {
		required := 0.0
		for _, session := range sessions {
			required += p.minHours(session, func(int) bool { return true })
		}
		if required > p.maxHours[teacher]+hoursEpsilon {
			return fmt.Sprintf("teacher %v needs at least %.1fh but may work %.1fh", m.Teachers[teacher].Id, required, p.maxHours[teacher]), nil
		}
	}

	//** Every session needs its own (timeslot, room) pair
	pairs := make(map[model.Value]int)
	for _, domain := range m.Domains {
		for _, value := range domain {
			if _, ok := pairs[value]; !ok {
				pairs[value] = len(pairs)
			}
		}
	}
	if len(m.Sessions)*len(pairs) <= maxMatchingEdges {
		admissible := make([]map[int]bool, len(m.Sessions))
		for session, domain := range m.Domains {
			admissible[session] = make(map[int]bool, len(domain))
			for _, value := range domain {
				admissible[session][pairs[value]] = true
			}
		}
		size, err := model.LargestMatching(len(m.Sessions), len(pairs), func(session, pair int) bool {
			return admissible[session][pair]
		})
		if err != nil {
			return "", err
		}
		if size < len(m.Sessions) {
			return fmt.Sprintf("only %d of %d sessions can get distinct (timeslot, room) pairs", size, len(m.Sessions)), nil
		}
	}

	//** Sessions sharing a teacher or a group need distinct timeslots
	check := func(kind, id string, sessions []int) (string, error) {
		if len(sessions) < 2 {
			return "", nil
		}
		timeslots := make([]map[int]bool, len(sessions))
		for i, session := range sessions {
			timeslots[i] = make(map[int]bool)
			for _, value := range m.Domains[session] {
				timeslots[i][value.Timeslot] = true
			}
		}
		size, err := model.LargestMatching(len(sessions), len(m.Timeslots), func(session, timeslot int) bool {
			return timeslots[session][timeslot]
		})
		if err != nil {
			return "", err
		}
		if size < len(sessions) {
			return fmt.Sprintf("%v %v has %d sessions but only %d distinct timeslots", kind, id, len(sessions), size), nil
		}
		return "", nil
	}
	for teacher, sessions := range p.teacherSessions {
		if reason, err := check("teacher", m.Teachers[teacher].Id, sessions); reason != "" || err != nil {
			return reason, err
		}
	}
	for group, sessions := range p.groupSessions {
		if reason, err := check("group", m.Groups[group].Id, sessions); reason != "" || err != nil {
			return reason, err
		}
	}

	return "", nil
}
