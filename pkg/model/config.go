package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Weights of each soft criterion in the penalty of a feasible assignment
type Weights struct {
	Preference  int `mapstructure:"preference"`
	Compactness int `mapstructure:"compactness"`
	Category    int `mapstructure:"category"`
}

// BuildConfig holds the institution-level policies applied while building the model
type BuildConfig struct {
	MaxSessionsPerDayGroup   int                     `mapstructure:"max_sessions_per_day_group"`   // 0 means no cap
	MaxSessionsPerDayTeacher int                     `mapstructure:"max_sessions_per_day_teacher"` // 0 means no cap
	WorkingDays              []Weekday               `mapstructure:"working_days"`
	TypeCompatibility        map[CourseType]RoomType `mapstructure:"type_compatibility"`
	EnforceEquipment         bool                    `mapstructure:"enforce_equipment"`
	ExcludeLunch             bool                    `mapstructure:"exclude_lunch"`
	LunchStart               string                  `mapstructure:"lunch_start"`
	ExcludedCategories       []string                `mapstructure:"excluded_categories"`
	PreferredCategory        string                  `mapstructure:"preferred_category"`
	Weights                  Weights                 `mapstructure:"weights"`
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		WorkingDays:       []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday},
		TypeCompatibility: lo.Assign(DefaultTypeCompatibility),
		EnforceEquipment:  true,
		LunchStart:        "12:00",
		Weights: Weights{
			Preference:  3,
			Compactness: 2,
			Category:    1,
		},
	}
}

func (config BuildConfig) validate() error {
	if config.MaxSessionsPerDayGroup < 0 {
		return ModelBuildError{Field: "config.max_sessions_per_day_group", Reason: "must not be negative"}
	} else if config.MaxSessionsPerDayTeacher < 0 {
		return ModelBuildError{Field: "config.max_sessions_per_day_teacher", Reason: "must not be negative"}
	}

	for _, day := range config.WorkingDays {
		if day < Monday || day > Sunday {
			return ModelBuildError{Field: "config.working_days", Reason: fmt.Sprintf("%v is not a weekday", day)}
		}
	}

	known := []RoomType{LectureHall, TutorialRoom, LabRoom}
	for courseType, roomType := range config.TypeCompatibility {
		if !slices.Contains(known, roomType) {
			return ModelBuildError{
				Field:  fmt.Sprintf("config.type_compatibility[%v]", courseType),
				Reason: fmt.Sprintf("room type %q not found", roomType),
			}
		}
	}
	return nil
}

func (config BuildConfig) working(day Weekday) bool {
	return len(config.WorkingDays) == 0 || slices.Contains(config.WorkingDays, day)
}
