package model

import (
	"fmt"
	"strings"
)

// CyclicPrerequisiteError is returned when a course is (transitively) its own prerequisite
type CyclicPrerequisiteError struct {
	CourseId string // Course at which the cycle was discovered
}

func (err CyclicPrerequisiteError) Error() string {
	return fmt.Sprintf("cyclic prerequisite detected at course %q", err.CourseId)
}

// InfeasibleCapacityError is returned when no room of the required type can seat a course
type InfeasibleCapacityError struct {
	CourseId      string
	Required      int
	BestAvailable int // Largest capacity among rooms of the matching type (0 if there is none)
}

func (err InfeasibleCapacityError) Error() string {
	return fmt.Sprintf("course %q needs a room for %d students but the best available holds %d", err.CourseId, err.Required, err.BestAvailable)
}

type ModelBuildError struct {
	Field  string
	Reason string
}

func (err ModelBuildError) Error() string {
	return fmt.Sprintf("cannot build model: %v: %v", err.Field, err.Reason)
}

type Violation struct {
	Session int
	Reason  string
}

// ViolationError lists every hard constraint broken by an assignment
type ViolationError struct {
	Violations []Violation
}

func (err ViolationError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d hard constraint violation(s)", len(err.Violations))
	for _, violation := range err.Violations {
		fmt.Fprintf(&builder, "\n\tsession %d: %v", violation.Session, violation.Reason)
	}
	return builder.String()
}
