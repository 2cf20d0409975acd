package model

type color uint8

const (
	white color = iota // Unvisited
	gray               // On the recursion stack
	black              // Fully visited
)

// Validate checks that the prerequisite relation over courses is acyclic. Prerequisite ids
// that do not name a course of the catalog are ignored. The first cycle found (in catalog
// order) is reported through CyclicPrerequisiteError.
func Validate(courses []Course) error {
	index := make(map[string]int, len(courses))
	for i, course := range courses {
		index[course.Id] = i
	}

	graph := make([][]int, len(courses))
	for i, course := range courses {
		for _, prerequisite := range course.Prerequisites {
			if j, ok := index[prerequisite]; ok {
				graph[i] = append(graph[i], j)
			}
		}
	}

	colors := make([]color, len(courses))
	var visit func(node int) error
	visit = func(node int) error {
		colors[node] = gray
		for _, neighbor := range graph[node] {
			switch colors[neighbor] {
			case gray:
				return CyclicPrerequisiteError{CourseId: courses[neighbor].Id}
			case white:
				if err := visit(neighbor); err != nil {
					return err
				}
			}
		}
		colors[node] = black
		return nil
	}

	for node := range courses {
		if colors[node] != white {
			continue
		}
		if err := visit(node); err != nil {
			return err
		}
	}
	return nil
}

// transitiveClosure returns reach[i][j] = true when j is reachable from i through one or more edges
func transitiveClosure(graph [][]int) [][]bool {
	reach := make([][]bool, len(graph))
	for i := range graph {
		reach[i] = make([]bool, len(graph))
	}
	for source := range graph {
		stack := append([]int(nil), graph[source]...)
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reach[source][node] {
				continue
			}
			reach[source][node] = true
			stack = append(stack, graph[node]...)
		}
	}
	return reach
}
