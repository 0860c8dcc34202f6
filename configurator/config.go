package configurator

import (
	"encoding/json"
	"math"
	"time"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/kinematics/ik"
	"github.com/austingheath/configurator/utils"
)

// Config bounds and tunes the configuration search. Lengths are in millimeters and angles in radians.
type Config struct {
	MinJoints int `json:"min_joints"`
	MaxJoints int `json:"max_joints"`

	// MaxLinkLength is the exclusive cap on a and d; LinkStep is the increment they are enumerated by.
	MaxLinkLength float64 `json:"max_link_length"`
	LinkStep      float64 `json:"link_step"`
	// Alphas are tried in order for every joint count and link length.
	Alphas []float64 `json:"alphas"`

	Method               ik.Method `json:"method"`
	PositionTolerance    float64   `json:"position_tolerance"`
	OrientationTolerance float64   `json:"orientation_tolerance"`
	RestartBudget        int       `json:"restart_budget"`

	// Seed makes IK restarts reproducible; candidate i draws from Seed+i.
	Seed int64 `json:"seed"`
	// Workers is how many candidates are verified concurrently. Results do not depend on it.
	Workers int `json:"workers"`
	// Timeout bounds the whole search. Zero means no limit.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the search space used when a caller has no opinion.
func DefaultConfig() Config {
	return Config{
		MinJoints:            1,
		MaxJoints:            6,
		MaxLinkLength:        1000,
		LinkStep:             100,
		Alphas:               []float64{utils.DegToRad(90), utils.DegToRad(-90), 0},
		Method:               ik.JacobianPseudoinverse,
		PositionTolerance:    10,
		OrientationTolerance: 0.01,
		RestartBudget:        10,
		Seed:                 1,
		Workers:              1,
	}
}

func invalidConfig(format string, args ...interface{}) error {
	return kinematics.NewError(kinematics.InvalidOptions, format, args...)
}

// Validate returns every problem with the config combined into one error.
func (cfg Config) Validate() error {
	var errs error
	if cfg.MinJoints < 1 {
		errs = multierr.Append(errs, invalidConfig("min_joints must be at least 1, got %d", cfg.MinJoints))
	}
	if cfg.MaxJoints > kinematics.MaxJoints {
		errs = multierr.Append(errs, invalidConfig("max_joints may be at most %d, got %d", kinematics.MaxJoints, cfg.MaxJoints))
	}
	if cfg.MinJoints > cfg.MaxJoints {
		errs = multierr.Append(errs, invalidConfig("min_joints (%d) exceeds max_joints (%d)", cfg.MinJoints, cfg.MaxJoints))
	}
	if !(cfg.MaxLinkLength > 0) || math.IsInf(cfg.MaxLinkLength, 0) {
		errs = multierr.Append(errs, invalidConfig("max_link_length must be a positive number, got %v", cfg.MaxLinkLength))
	}
	if !(cfg.LinkStep > 0) || math.IsInf(cfg.LinkStep, 0) {
		errs = multierr.Append(errs, invalidConfig("link_step must be a positive number, got %v", cfg.LinkStep))
	}
	if len(cfg.Alphas) == 0 {
		errs = multierr.Append(errs, invalidConfig("at least one alpha is required"))
	}
	for _, a := range cfg.Alphas {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			errs = multierr.Append(errs, invalidConfig("alpha %v is not finite", a))
		}
	}
	if cfg.Workers < 0 {
		errs = multierr.Append(errs, invalidConfig("workers must not be negative, got %d", cfg.Workers))
	}
	if cfg.Timeout < 0 {
		errs = multierr.Append(errs, invalidConfig("timeout must not be negative, got %v", cfg.Timeout))
	}
	if err := cfg.ikOptions().Validate(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (cfg Config) ikOptions() ik.Options {
	opts := ik.DefaultOptions()
	opts.Method = cfg.Method
	opts.PositionTolerance = cfg.PositionTolerance
	opts.OrientationTolerance = cfg.OrientationTolerance
	opts.RestartBudget = cfg.RestartBudget
	return opts
}

// ReadConfig reads a JSON config file, expanding environment variables, on top of DefaultConfig. Fields
// missing from the file keep their defaults; durations may be written as strings such as "30s".
func ReadConfig(path string) (Config, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read config %q", path)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(buf, &raw); err != nil {
		return Config{}, errors.Wrapf(err, "cannot parse config %q", path)
	}

	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &cfg,
		ErrorUnused: true,
		ZeroFields:  true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
