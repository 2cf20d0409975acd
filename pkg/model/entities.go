package model

import (
	"fmt"
	"strings"
	"time"
)

type CourseType string

const (
	Lecture  CourseType = "Lecture"
	Tutorial CourseType = "Tutorial"
	Lab      CourseType = "Lab"
)

type RoomType string

const (
	LectureHall  RoomType = "LectureHall"
	TutorialRoom RoomType = "TutorialRoom"
	LabRoom      RoomType = "Lab"
)

// Aliases accepted when decoding catalogs (the short codes come from legacy exports)
var courseTypeAliases = map[string]CourseType{
	"lecture":  Lecture,
	"cm":       Lecture,
	"tutorial": Tutorial,
	"td":       Tutorial,
	"lab":      Lab,
	"tp":       Lab,
}

var roomTypeAliases = map[string]RoomType{
	"lecturehall":   LectureHall,
	"lecture_hall":  LectureHall,
	"lecture hall":  LectureHall,
	"amphitheatre":  LectureHall,
	"tutorialroom":  TutorialRoom,
	"tutorial_room": TutorialRoom,
	"tutorial room": TutorialRoom,
	"td_room":       TutorialRoom,
	"lab":           LabRoom,
}

func ParseCourseType(value string) (CourseType, error) {
	courseType, ok := courseTypeAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("unknown course type %q", value)
	}
	return courseType, nil
}

func ParseRoomType(value string) (RoomType, error) {
	roomType, ok := roomTypeAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("unknown room type %q", value)
	}
	return roomType, nil
}

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (day Weekday) String() string {
	if day < Monday || day > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(day))
	}
	return weekdayNames[day]
}

func (day Weekday) MarshalText() ([]byte, error) {
	return []byte(day.String()), nil
}

func ParseWeekday(value string) (Weekday, error) {
	for day, name := range weekdayNames {
		if strings.EqualFold(name, strings.TrimSpace(value)) {
			return Weekday(day), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", value)
}

type Course struct {
	Id                  string     `mapstructure:"id" validate:"required"`
	Name                string     `mapstructure:"name"`
	Type                CourseType `mapstructure:"type" validate:"required,oneof=Lecture Tutorial Lab"`
	Teacher             string     `mapstructure:"teacher"`
	Group               string     `mapstructure:"group" validate:"required"`
	ExpectedStudents    int        `mapstructure:"expected_students" validate:"gt=0"`
	WeeklySessions      int        `mapstructure:"weekly_sessions" validate:"gte=1"`
	WeeklyHours         float64    `mapstructure:"weekly_hours" validate:"gte=0"`
	Semester            int        `mapstructure:"semester"`
	Prerequisites       []string   `mapstructure:"prerequisites"`
	RequiredEquipment   []string   `mapstructure:"required_equipment"`
	IncompatibleCourses []string   `mapstructure:"incompatible_courses"`
	ExcludedCategories  []string   `mapstructure:"excluded_categories"` // Timeslot categories this course may never take
}

type Teacher struct {
	Id               string   `mapstructure:"id" validate:"required"`
	Name             string   `mapstructure:"name"`
	MaxHours         float64  `mapstructure:"max_hours_per_week" validate:"gt=0"`
	UnavailableSlots []string `mapstructure:"unavailable_slots"`
	PreferredSlots   []string `mapstructure:"preferred_slots"` // Ordered, most preferred first
	CanTeach         []string `mapstructure:"can_teach"`
}

type Room struct {
	Id        string   `mapstructure:"id" validate:"required"`
	Name      string   `mapstructure:"name"`
	Capacity  int      `mapstructure:"capacity" validate:"gt=0"`
	Type      RoomType `mapstructure:"type" validate:"required,oneof=LectureHall TutorialRoom Lab"`
	Equipment []string `mapstructure:"equipment"`
	Building  string   `mapstructure:"building"`
	Floor     int      `mapstructure:"floor"`
}

type Group struct {
	Id       string   `mapstructure:"id" validate:"required"`
	Size     int      `mapstructure:"size" validate:"gt=0"`
	Semester int      `mapstructure:"semester"`
	Courses  []string `mapstructure:"courses"`
}

type Timeslot struct {
	Id       string  `mapstructure:"id" validate:"required"`
	Day      Weekday `mapstructure:"day" validate:"gte=0,lte=6"`
	Start    string  `mapstructure:"start" validate:"required,datetime=15:04"`
	End      string  `mapstructure:"end" validate:"required,datetime=15:04"`
	Duration float64 `mapstructure:"duration" validate:"gte=0"` // Hours; derived from start and end when zero
	Category string  `mapstructure:"category"`
}

// StartMinutes returns the start time as minutes after midnight
func (timeslot Timeslot) StartMinutes() int {
	return clockMinutes(timeslot.Start)
}

func (timeslot Timeslot) EndMinutes() int {
	return clockMinutes(timeslot.End)
}

// Hours returns the declared duration, falling back to end minus start
func (timeslot Timeslot) Hours() float64 {
	if timeslot.Duration > 0 {
		return timeslot.Duration
	}
	return float64(timeslot.EndMinutes()-timeslot.StartMinutes()) / 60
}

type Catalog struct {
	Courses   []Course   `mapstructure:"courses"`
	Teachers  []Teacher  `mapstructure:"teachers"`
	Rooms     []Room     `mapstructure:"rooms"`
	Groups    []Group    `mapstructure:"groups"`
	Timeslots []Timeslot `mapstructure:"timeslots"`
}

func clockMinutes(clock string) int {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}
