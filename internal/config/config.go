package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig         `mapstructure:"log"`
	Solver SolverConfig      `mapstructure:"solver"`
	Model  model.BuildConfig `mapstructure:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type SolverConfig struct {
	Backend      string        `mapstructure:"backend"` // search or sat
	SAT          string        `mapstructure:"sat"`     // gini, kissat, cadical, minisat or glucose
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxNodes     int64         `mapstructure:"max_nodes"`
	Workers      int           `mapstructure:"workers"`
	MaxSolutions int           `mapstructure:"max_solutions"`
	KissatPath   string        `mapstructure:"kissat_path"`
	CadicalPath  string        `mapstructure:"cadical_path"`
	MinisatPath  string        `mapstructure:"minisat_path"`
	GlucosePath  string        `mapstructure:"glucose_path"`
}

var (
	backends   = []string{"search", "sat"}
	satSolvers = []string{"gini", "kissat", "cadical", "minisat", "glucose"}
	logFormats = []string{"json", "console"}
)

// Load reads the configuration with the priority: environment > config file > defaults.
// An empty path looks for config.yaml in ./config and the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("solver.backend", "search")
	v.SetDefault("solver.sat", "gini")
	v.SetDefault("solver.timeout", "60s")
	v.SetDefault("solver.max_nodes", 0)
	v.SetDefault("solver.workers", 1)
	v.SetDefault("solver.max_solutions", 1)
	v.SetDefault("solver.kissat_path", "kissat")
	v.SetDefault("solver.cadical_path", "cadical")
	v.SetDefault("solver.minisat_path", "minisat")
	v.SetDefault("solver.glucose_path", "glucose")

	defaults := model.DefaultBuildConfig()
	v.SetDefault("model.max_sessions_per_day_group", defaults.MaxSessionsPerDayGroup)
	v.SetDefault("model.max_sessions_per_day_teacher", defaults.MaxSessionsPerDayTeacher)
	v.SetDefault("model.working_days", lo.Map(defaults.WorkingDays, func(day model.Weekday, _ int) string { return day.String() }))
	v.SetDefault("model.type_compatibility", lo.MapEntries(defaults.TypeCompatibility, func(courseType model.CourseType, roomType model.RoomType) (string, string) {
		return string(courseType), string(roomType)
	}))
	v.SetDefault("model.enforce_equipment", defaults.EnforceEquipment)
	v.SetDefault("model.exclude_lunch", defaults.ExcludeLunch)
	v.SetDefault("model.lunch_start", defaults.LunchStart)
	v.SetDefault("model.excluded_categories", []string{})
	v.SetDefault("model.preferred_category", defaults.PreferredCategory)
	v.SetDefault("model.weights.preference", defaults.Weights.Preference)
	v.SetDefault("model.weights.compactness", defaults.Weights.Compactness)
	v.SetDefault("model.weights.category", defaults.Weights.Category)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCHEDULER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var config Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		model.DecodeHook(),
	))
	if err := v.Unmarshal(&config, hook); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (config *Config) Validate() error {
	if !slices.Contains(logFormats, config.Log.Format) {
		return fmt.Errorf("invalid config: log.format must be one of %v", logFormats)
	}
	if !slices.Contains(backends, config.Solver.Backend) {
		return fmt.Errorf("invalid config: solver.backend must be one of %v", backends)
	}
	if !slices.Contains(satSolvers, config.Solver.SAT) {
		return fmt.Errorf("invalid config: solver.sat must be one of %v", satSolvers)
	}
	if config.Solver.Timeout < 0 || config.Solver.MaxNodes < 0 {
		return fmt.Errorf("invalid config: solver.timeout and solver.max_nodes must not be negative")
	}
	if config.Solver.Workers < 1 {
		return fmt.Errorf("invalid config: solver.workers must be at least 1")
	}
	if config.Solver.MaxSolutions < 1 {
		return fmt.Errorf("invalid config: solver.max_solutions must be at least 1")
	}
	return nil
}

// Budget converts the solver limits into a search budget
func (config SolverConfig) Budget() model.Budget {
	return model.Budget{
		MaxNodes: config.MaxNodes,
		Timeout:  config.Timeout,
	}
}
