package model

// Prepare runs every pre-solve stage in order (record validation, prerequisite validation,
// capacity pre-check, model build) and surfaces the first failure unchanged
func Prepare(catalog Catalog, config BuildConfig) (*Model, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	if err := Validate(catalog.Courses); err != nil {
		return nil, err
	}

	compatibility := config.TypeCompatibility
	if len(compatibility) == 0 {
		compatibility = DefaultTypeCompatibility
	}
	if err := CheckFeasibilityWith(catalog.Courses, catalog.Rooms, compatibility); err != nil {
		return nil, err
	}

	return BuildModel(catalog.Courses, catalog.Teachers, catalog.Rooms, catalog.Groups, catalog.Timeslots, config)
}
