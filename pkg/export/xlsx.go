package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet = "Schedule"
	weekSheet     = "Week"
)

var scheduleHeader = []string{"Course", "Type", "Session", "Teacher", "Group", "Day", "Start", "End", "Room"}

// WriteXLSX writes a workbook with the flat schedule and a timeslot by weekday grid
func WriteXLSX(w io.Writer, entries []model.ScheduleEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(weekSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeScheduleSheet(f, entries, headerStyle); err != nil {
		return err
	}
	if err := writeWeekSheet(f, entries, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func writeScheduleSheet(f *excelize.File, entries []model.ScheduleEntry, headerStyle int) error {
	if err := f.SetSheetRow(scheduleSheet, "A1", &scheduleHeader); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(scheduleHeader))
	f.SetCellStyle(scheduleSheet, "A1", last+"1", headerStyle)
	f.SetColWidth(scheduleSheet, "A", last, 14)

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{entry.CourseId, string(entry.Type), entry.Session, entry.Teacher, entry.Group, entry.Day.String(), entry.Start, entry.End, entry.Room}
		if err := f.SetSheetRow(scheduleSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// writeWeekSheet lays out one row per distinct (start, end) and one column per weekday in use
func writeWeekSheet(f *excelize.File, entries []model.ScheduleEntry, headerStyle int) error {
	type period struct{ start, end string }

	days := lo.Uniq(lo.Map(entries, func(entry model.ScheduleEntry, _ int) model.Weekday { return entry.Day }))
	slices.Sort(days)
	periods := lo.Uniq(lo.Map(entries, func(entry model.ScheduleEntry, _ int) period { return period{entry.Start, entry.End} }))
	slices.SortFunc(periods, func(a, b period) int { return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(a.end, b.end)) })

	cells := make(map[period]map[model.Weekday][]string)
	for _, entry := range entries {
		key := period{entry.Start, entry.End}
		if cells[key] == nil {
			cells[key] = make(map[model.Weekday][]string)
		}
		cells[key][entry.Day] = append(cells[key][entry.Day], fmt.Sprintf("%v #%d (%v, %v)", entry.CourseId, entry.Session, entry.Group, entry.Room))
	}

	f.SetCellValue(weekSheet, "A1", "Time")
	for i, day := range days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(weekSheet, cell, day.String())
	}
	last, _ := excelize.ColumnNumberToName(len(days) + 1)
	f.SetCellStyle(weekSheet, "A1", last+"1", headerStyle)
	f.SetColWidth(weekSheet, "A", "A", 14)
	if len(days) > 0 {
		f.SetColWidth(weekSheet, "B", last, 32)
	}

	for row, p := range periods {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		f.SetCellValue(weekSheet, cell, fmt.Sprintf("%v-%v", p.start, p.end))
		for column, day := range days {
			text := "-"
			if sessions := cells[p][day]; len(sessions) > 0 {
				text = strings.Join(sessions, "\n")
			}
			cell, _ := excelize.CoordinatesToCellName(column+2, row+2)
			if err := f.SetCellValue(weekSheet, cell, text); err != nil {
				return err
			}
		}
	}
	return nil
}
