package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Collections of a catalog, also used as file names when a catalog is split across a directory
var catalogCollections = []string{"courses", "teachers", "rooms", "groups", "timeslots"}

var catalogExtensions = []string{".json", ".yaml", ".yml"}

// CatalogFromFile loads a catalog from a single JSON/YAML document holding every collection,
// or from a directory holding one document per collection (courses.json, rooms.json, ...)
func CatalogFromFile(path string) (Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Catalog{}, err
	}

	var raw map[string]any
	if info.IsDir() {
		raw, err = readCatalogDirectory(path)
	} else {
		err = readDocument(path, &raw)
	}
	if err != nil {
		return Catalog{}, err
	}

	catalog, err := DecodeCatalog(raw)
	if err != nil {
		return Catalog{}, err
	}
	return ProcessCatalog(catalog)
}

// DecodeCatalog maps a generic document onto the typed catalog
func DecodeCatalog(raw map[string]any) (Catalog, error) {
	var catalog Catalog
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		WeaklyTypedInput: true,
		Result:           &catalog,
	})
	if err != nil {
		return Catalog{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Catalog{}, fmt.Errorf("cannot decode catalog: %w", err)
	}

	// Session counts are derived only when the document omits them; an explicit 0 fails validation
	typicalDuration := typicalSlotDuration(catalog.Timeslots)
	records, _ := raw["courses"].([]any)
	for i := range catalog.Courses {
		if i < len(records) {
			if record, ok := records[i].(map[string]any); ok {
				if _, set := record["weekly_sessions"]; set {
					continue
				}
			}
		}
		catalog.Courses[i].WeeklySessions = defaultWeeklySessions(catalog.Courses[i], typicalDuration)
	}
	return catalog, nil
}

// defaultWeeklySessions spreads the weekly hours over slots of the typical duration, one session at least
func defaultWeeklySessions(course Course, typicalDuration float64) int {
	if course.WeeklyHours > 0 && typicalDuration > 0 {
		return max(int(math.Ceil(course.WeeklyHours/typicalDuration)), 1)
	}
	return 1
}

// DecodeHook converts the loose representations found in catalogs and configuration files:
// comma separated strings into lists, type aliases into course/room types and weekday names
// into weekdays
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToListHook,
		courseTypeHook,
		roomTypeHook,
		weekdayHook,
	)
}

func stringToListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return lo.Compact(lo.Map(strings.Split(data.(string), ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})), nil
}

func courseTypeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(CourseType("")) {
		return data, nil
	}
	return ParseCourseType(data.(string))
}

func roomTypeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(RoomType("")) {
		return data, nil
	}
	return ParseRoomType(data.(string))
}

func weekdayHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Weekday(0)) {
		return data, nil
	}
	return ParseWeekday(data.(string))
}

// ProcessCatalog fills derived fields (names, durations, inferred teachers) and validates
// every record
func ProcessCatalog(catalog Catalog) (Catalog, error) {
	for i := range catalog.Timeslots {
		timeslot := &catalog.Timeslots[i]
		if timeslot.Duration == 0 {
			timeslot.Duration = timeslot.Hours()
		}
		if timeslot.Category == "" {
			timeslot.Category = "standard"
		}
	}

	for i := range catalog.Courses {
		course := &catalog.Courses[i]
		if course.Name == "" {
			course.Name = course.Id
		}
		// Explicit assignment is authoritative; otherwise the first teacher able to teach the course
		if course.Teacher == "" {
			if teacher, ok := lo.Find(catalog.Teachers, func(teacher Teacher) bool {
				return lo.Contains(teacher.CanTeach, course.Id)
			}); ok {
				course.Teacher = teacher.Id
			}
		}
	}

	for i := range catalog.Teachers {
		if catalog.Teachers[i].Name == "" {
			catalog.Teachers[i].Name = catalog.Teachers[i].Id
		}
	}
	for i := range catalog.Rooms {
		if catalog.Rooms[i].Name == "" {
			catalog.Rooms[i].Name = catalog.Rooms[i].Id
		}
	}

	return catalog, ValidateCatalog(catalog)
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their catalog name
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ValidateCatalog checks every record's own fields; the first failure is reported as a ModelBuildError
func ValidateCatalog(catalog Catalog) error {
	check := func(kind, id string, record any) error {
		err := recordValidator.Struct(record)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldError := validationErrors[0]
			reason := fmt.Sprintf("failed %q validation", fieldError.Tag())
			if fieldError.Param() != "" {
				reason = fmt.Sprintf("failed %q validation (%v)", fieldError.Tag(), fieldError.Param())
			}
			return ModelBuildError{Field: fmt.Sprintf("%v[%v].%v", kind, id, fieldError.Field()), Reason: reason}
		}
		return err
	}

	for _, course := range catalog.Courses {
		if err := check("course", course.Id, course); err != nil {
			return err
		}
	}
	for _, teacher := range catalog.Teachers {
		if err := check("teacher", teacher.Id, teacher); err != nil {
			return err
		}
	}
	for _, room := range catalog.Rooms {
		if err := check("room", room.Id, room); err != nil {
			return err
		}
	}
	for _, group := range catalog.Groups {
		if err := check("group", group.Id, group); err != nil {
			return err
		}
	}
	for _, timeslot := range catalog.Timeslots {
		if err := check("timeslot", timeslot.Id, timeslot); err != nil {
			return err
		}
		if timeslot.EndMinutes() <= timeslot.StartMinutes() {
			return ModelBuildError{Field: fmt.Sprintf("timeslot[%v].end", timeslot.Id), Reason: "must be after start"}
		}
	}
	return nil
}

// typicalSlotDuration returns the most frequent timeslot duration (the shortest one on ties)
func typicalSlotDuration(timeslots []Timeslot) float64 {
	frequencies := lo.CountValuesBy(timeslots, func(timeslot Timeslot) float64 { return timeslot.Hours() })
	best, bestCount := 0.0, 0
	for duration, count := range frequencies {
		if duration > 0 && (count > bestCount || (count == bestCount && duration < best)) {
			best, bestCount = duration, count
		}
	}
	return best
}

func readDocument(path string, out any) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, out)
	default:
		err = json.Unmarshal(bytes, out)
	}
	if err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return nil
}

func readCatalogDirectory(directory string) (map[string]any, error) {
	raw := make(map[string]any, len(catalogCollections))
	for _, collection := range catalogCollections {
		path, ok := lo.Find(
			lo.Map(catalogExtensions, func(extension string, _ int) string {
				return filepath.Join(directory, collection+extension)
			}),
			func(path string) bool {
				_, err := os.Stat(path)
				return err == nil
			},
		)
		if !ok {
			return nil, fmt.Errorf("collection %q not found in %v", collection, directory)
		}

		var records []any
		if err := readDocument(path, &records); err != nil {
			return nil, err
		}
		raw[collection] = records
	}
	return raw, nil
}
