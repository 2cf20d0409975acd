package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	ICS  Format = "ics"
	JSON Format = "json"
)

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	format := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	switch format {
	case CSV, XLSX, ICS, JSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

// Write dispatches to the writer of the format. weekStart only matters for calendars.
func Write(format Format, w io.Writer, entries []model.ScheduleEntry, weekStart time.Time) error {
	switch format {
	case CSV:
		return WriteCSV(w, entries)
	case XLSX:
		return WriteXLSX(w, entries)
	case ICS:
		return WriteICS(w, entries, weekStart)
	case JSON:
		return WriteJSON(w, entries)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
