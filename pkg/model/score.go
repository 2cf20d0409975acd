package model

import (
	"slices"
)

// Penalty of a feasible assignment under the soft criteria; lower is better
type Penalty struct {
	Preference  int // Rank-weighted misses of the teachers' preferred timeslots
	Compactness int // Idle positions inside each group's day
	Category    int // Sessions placed outside the preferred timeslot category
	Total       int // Weighted sum of the criteria above
}

func Score(model *Model, assignment Assignment) Penalty {
	var penalty Penalty

	groupDays := make(map[[2]int][]int)
	for session, value := range assignment {
		if value.Timeslot < 0 {
			continue
		}
		teacher := model.Sessions[session].Teacher
		slot := model.Slots[value.Timeslot]

		if preferred := len(model.Teachers[teacher].PreferredSlots); preferred > 0 {
			if rank := model.PreferenceRank[teacher][value.Timeslot]; rank >= 0 {
				penalty.Preference += rank
			} else {
				penalty.Preference += preferred
			}
		}

		if !model.inPreferredCategory(value.Timeslot) {
			penalty.Category++
		}

		key := [2]int{model.Sessions[session].Group, int(slot.Day)}
		groupDays[key] = append(groupDays[key], slot.Position)
	}

	for _, positions := range groupDays {
		penalty.Compactness += gaps(positions)
	}

	weights := model.Config.Weights
	penalty.Total = weights.Preference*penalty.Preference + weights.Compactness*penalty.Compactness + weights.Category*penalty.Category
	return penalty
}

// gaps counts the free positions between the first and the last occupied one
func gaps(positions []int) int {
	if len(positions) < 2 {
		return 0
	}
	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return sorted[len(sorted)-1] - sorted[0] + 1 - len(sorted)
}
