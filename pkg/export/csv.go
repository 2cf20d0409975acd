package export

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/samber/lo"
)

type scheduleRow struct {
	Course  string `csv:"course"`
	Type    string `csv:"type"`
	Session int    `csv:"session"`
	Teacher string `csv:"teacher"`
	Group   string `csv:"group"`
	Day     string `csv:"day"`
	Start   string `csv:"start"`
	End     string `csv:"end"`
	Room    string `csv:"room"`
}

// WriteCSV writes one row per entry in schedule order
func WriteCSV(w io.Writer, entries []model.ScheduleEntry) error {
	rows := lo.Map(entries, func(entry model.ScheduleEntry, _ int) *scheduleRow {
		return &scheduleRow{
			Course:  entry.CourseId,
			Type:    string(entry.Type),
			Session: entry.Session,
			Teacher: entry.Teacher,
			Group:   entry.Group,
			Day:     entry.Day.String(),
			Start:   entry.Start,
			End:     entry.End,
			Room:    entry.Room,
		}
	})
	return gocsv.Marshal(&rows, w)
}
