package export

import (
	"encoding/json"
	"io"

	"github.com/limaJavier/smartscheduler/pkg/model"
)

func WriteJSON(w io.Writer, entries []model.ScheduleEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
