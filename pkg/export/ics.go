package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/limaJavier/smartscheduler/pkg/model"
)

const productId = "-//smartscheduler//timetable//EN"

// Namespace of the event UIDs, so that re-exporting a schedule updates rather than duplicates events
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/limaJavier/smartscheduler"))

// WriteICS writes one weekly recurring event per entry. weekStart is any instant of the first
// week; events are placed on the matching weekday in weekStart's location.
func WriteICS(w io.Writer, entries []model.ScheduleEntry, weekStart time.Time) error {
	monday := mondayOf(weekStart)
	stamp := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productId)

	for _, entry := range entries {
		start, err := occurrence(monday, entry.Day, entry.Start)
		if err != nil {
			return fmt.Errorf("course %v session %d: %w", entry.CourseId, entry.Session, err)
		}
		end, err := occurrence(monday, entry.Day, entry.End)
		if err != nil {
			return fmt.Errorf("course %v session %d: %w", entry.CourseId, entry.Session, err)
		}

		event := cal.AddEvent(EventUID(entry))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%v (%v)", entry.Course, entry.Type))
		event.SetLocation(entry.Room)
		event.SetDescription(fmt.Sprintf("Teacher: %v\nGroup: %v\nSession: %d", entry.Teacher, entry.Group, entry.Session))
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// EventUID is stable per (course, session)
func EventUID(entry model.ScheduleEntry) string {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%v#%d", entry.CourseId, entry.Session))).String()
}

func mondayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func occurrence(monday time.Time, day model.Weekday, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	date := monday.AddDate(0, 0, int(day))
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, monday.Location()), nil
}
