package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config carries the formerly hardcoded scheduling tables as data. Exclusions
// are keyed by the curricular-unit id rendered as a string (config-file object
// keys are strings); use ExclusionTable for the int-keyed view.
type Config struct {
	Log LogConfig `mapstructure:"log"`

	// Exclusions maps a curricular unit to the units it may never overlap
	// with. Symmetric by convention, not enforced.
	Exclusions map[string][]int64 `mapstructure:"exclusions"`
	// Labels maps a session label (TT, A, B, ...) to its numeric id. Keys are
	// folded to upper case by Load.
	Labels map[string]int64 `mapstructure:"labels"`
	// TheoreticalLabel is the label id whose sections require semester
	// exclusivity.
	TheoreticalLabel int64 `mapstructure:"theoreticalLabel"`
	// OverlapExemptUnits are allowed to double-book teachers and rooms by
	// policy; their variables are left out of the conflict rows.
	OverlapExemptUnits []int64 `mapstructure:"overlapExemptUnits"`

	PeriodsPerDay int    `mapstructure:"periodsPerDay"`
	DayStart      string `mapstructure:"dayStart"`
	DayEnd        string `mapstructure:"dayEnd"`
}

// Load reads an optional .env, then the config file when given, over the
// defaults that reproduce the original scheduling tables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("theoreticalLabel", 1)
	v.SetDefault("periodsPerDay", 15)
	v.SetDefault("dayStart", "08:30")
	v.SetDefault("dayEnd", "18:30")
	v.SetDefault("overlapExemptUnits", []int64{24, 25})
	v.SetDefault("exclusions", map[string][]int64{
		"3":  {5},
		"5":  {3},
		"11": {13, 14, 15},
		"13": {11},
		"14": {11},
		"15": {11},
		"22": {23},
		"23": {22},
	})
	v.SetDefault("labels", map[string]int64{"TT": 1, "A": 2, "B": 3, "C": 4, "D": 5})

	v.SetEnvPrefix("HORARIOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	cfg.Labels = upperLabelKeys(cfg.Labels)

	if _, err := cfg.ExclusionTable(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// upperLabelKeys folds the label keys to upper case. Viper lower-cases map
// keys it reads from a config file while defaults keep their case, so a
// configured TT arrives as "tt" and would never match a CSV label. When a
// folded key collides with an already-upper one, the folded (file-sourced)
// entry wins.
func upperLabelKeys(labels map[string]int64) map[string]int64 {
	result := make(map[string]int64, len(labels))
	for k, v := range labels {
		if k == strings.ToUpper(k) {
			result[k] = v
		}
	}
	for k, v := range labels {
		if k != strings.ToUpper(k) {
			result[strings.ToUpper(k)] = v
		}
	}
	return result
}

// ExclusionTable returns the mutual-exclusion table keyed by unit id.
func (c *Config) ExclusionTable() (map[int64][]int64, error) {
	result := make(map[int64][]int64)
	for k, v := range c.Exclusions {
		key, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("exclusion table key %q is not a unit id: %w", k, err)
		}
		result[key] = v
	}
	return result, nil
}
