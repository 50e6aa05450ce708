package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"gogaze/adapters/stats/events"
	"gogaze/adapters/stats/traces"
	"gogaze/domain/core"
	"gogaze/internal/errors"
)

// Parameters is a detector and trace repair preset
type Parameters struct {
	Missing       float64            `yaml:"missing"`
	MissingMode   events.MissingMode `yaml:"missing_mode"`
	FlushTrailing bool               `yaml:"flush_trailing"`
	Blink         BlinkParams        `yaml:"blink"`
	Fixation      FixationParams     `yaml:"fixation"`
	Saccade       SaccadeParams      `yaml:"saccade"`
	Microsaccade  MicrosaccadeParams `yaml:"microsaccade"`
	Traces        TraceParams        `yaml:"traces"`
}

type BlinkParams struct {
	MinLen int `yaml:"min_len"`
}

type FixationParams struct {
	MaxDist float64 `yaml:"max_dist"`
	MinDur  int64   `yaml:"min_dur"`
}

type SaccadeParams struct {
	MinLen int64   `yaml:"min_len"`
	MaxVel float64 `yaml:"max_vel"`
	MaxAcc float64 `yaml:"max_acc"`
}

type MicrosaccadeParams struct {
	Enabled bool    `yaml:"enabled"`
	MinDur  int64   `yaml:"min_dur"`
	Lambda  float64 `yaml:"lambda"`
}

// TraceParams configures the pupil repair chain. Steps run in field order.
type TraceParams struct {
	Invalid       float64             `yaml:"invalid"`
	Interpolation InterpolationParams `yaml:"interpolation"`
	Outliers      OutlierParams       `yaml:"outliers"`
	Hampel        HampelParams        `yaml:"hampel"`
	Smooth        SmoothParams        `yaml:"smooth"`
}

type InterpolationParams struct {
	Enabled        bool                     `yaml:"enabled"`
	Mode           traces.InterpolationMode `yaml:"mode"`
	VelThresh      float64                  `yaml:"vel_thresh"`
	MaxDur         int                      `yaml:"max_dur"`
	Margin         int                      `yaml:"margin"`
	MinDur         int                      `yaml:"min_dur"`
	StructuralOnly bool                     `yaml:"structural_only"`
}

type OutlierParams struct {
	Enabled       bool    `yaml:"enabled"`
	MaxDev        float64 `yaml:"max_dev"`
	AllowFraction float64 `yaml:"allow_fraction"`
	Interpolate   bool    `yaml:"interpolate"`
}

type HampelParams struct {
	Enabled   bool         `yaml:"enabled"`
	WindowLen int          `yaml:"window_len"`
	Threshold float64      `yaml:"threshold"`
	Focus     traces.Focus `yaml:"focus"`
	Corrected bool         `yaml:"corrected"`
}

type SmoothParams struct {
	Enabled   bool          `yaml:"enabled"`
	WindowLen int           `yaml:"window_len"`
	Kernel    traces.Kernel `yaml:"kernel"`
}

// DefaultParameters returns the stock preset. Detection of all four event
// kinds is on; of the repair chain only blink interpolation runs.
func DefaultParameters() Parameters {
	blink := events.DefaultBlinkConfig()
	fix := events.DefaultFixationConfig()
	sac := events.DefaultSaccadeConfig()
	micro := events.DefaultMicrosaccadeConfig()
	bi := traces.DefaultBlinkInterpolation()
	mi := traces.DefaultMissingInterpolation()
	out := traces.DefaultOutlierOptions()
	ham := traces.DefaultHampelOptions()
	sm := traces.DefaultSmoothOptions()

	return Parameters{
		Missing:      blink.Missing,
		MissingMode:  events.MissingNone,
		Blink:        BlinkParams{MinLen: blink.MinLen},
		Fixation:     FixationParams{MaxDist: fix.MaxDist, MinDur: fix.MinDur},
		Saccade:      SaccadeParams{MinLen: sac.MinLen, MaxVel: sac.MaxVel, MaxAcc: sac.MaxAcc},
		Microsaccade: MicrosaccadeParams{Enabled: true, MinDur: micro.MinDur, Lambda: micro.Lambda},
		Traces: TraceParams{
			Invalid: bi.Invalid,
			Interpolation: InterpolationParams{
				Enabled:   true,
				Mode:      bi.Mode,
				VelThresh: bi.VelThresh,
				MaxDur:    bi.MaxDur,
				Margin:    bi.Margin,
				MinDur:    mi.MinDur,
			},
			Outliers: OutlierParams{MaxDev: out.MaxDev, AllowFraction: out.AllowFraction, Interpolate: out.Interpolate},
			Hampel:   HampelParams{WindowLen: ham.WindowLen, Threshold: ham.Threshold, Focus: ham.Focus},
			Smooth:   SmoothParams{WindowLen: sm.WindowLen, Kernel: sm.Kernel},
		},
	}
}

// LoadParameters reads a YAML preset. Environment references are expanded
// and keys absent from the file keep their default value.
func LoadParameters(path string) (*Parameters, error) {
	params := DefaultParameters()
	if path == "" {
		return &params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read parameters from %s", path))
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &params); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to parse parameters in %s", path))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate checks every derived detector and repair configuration
func (p Parameters) Validate() error {
	checks := []interface{ Validate() error }{
		p.BlinkConfig(),
		p.FixationConfig(),
		p.SaccadeConfig(),
		p.MicrosaccadeConfig(),
		p.BlinkInterpolation(),
		p.MissingInterpolation(),
	}
	if p.Traces.Outliers.Enabled {
		checks = append(checks, p.OutlierOptions())
	}
	if p.Traces.Hampel.Enabled {
		checks = append(checks, p.Traces.Hampel.Focus)
	}
	if p.Traces.Smooth.Enabled {
		checks = append(checks, p.Traces.Smooth.Kernel)
	}
	for _, c := range checks {
		if err := c.Validate(); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	return nil
}

// Fingerprint identifies the effective parameter set so stored runs can be
// grouped by the preset that produced them
func (p Parameters) Fingerprint() core.Hash {
	data, err := yaml.Marshal(p)
	if err != nil {
		return ""
	}
	return core.NewHash(data)
}

func (p Parameters) BlinkConfig() events.BlinkConfig {
	return events.BlinkConfig{Missing: p.Missing, MinLen: p.Blink.MinLen, FlushTrailing: p.FlushTrailing}
}

func (p Parameters) FixationConfig() events.FixationConfig {
	return events.FixationConfig{
		Missing:       p.Missing,
		MaxDist:       p.Fixation.MaxDist,
		MinDur:        p.Fixation.MinDur,
		MissingMode:   p.MissingMode,
		FlushTrailing: p.FlushTrailing,
	}
}

func (p Parameters) SaccadeConfig() events.SaccadeConfig {
	return events.SaccadeConfig{
		Missing:       p.Missing,
		MinLen:        p.Saccade.MinLen,
		MaxVel:        p.Saccade.MaxVel,
		MaxAcc:        p.Saccade.MaxAcc,
		MissingMode:   p.MissingMode,
		FlushTrailing: p.FlushTrailing,
	}
}

func (p Parameters) MicrosaccadeConfig() events.MicrosaccadeConfig {
	return events.MicrosaccadeConfig{MinDur: p.Microsaccade.MinDur, Lambda: p.Microsaccade.Lambda, FlushTrailing: p.FlushTrailing}
}

func (p Parameters) BlinkInterpolation() traces.BlinkInterpolation {
	ip := p.Traces.Interpolation
	return traces.BlinkInterpolation{
		Mode:           ip.Mode,
		VelThresh:      ip.VelThresh,
		MaxDur:         ip.MaxDur,
		Margin:         ip.Margin,
		Invalid:        p.Traces.Invalid,
		StructuralOnly: ip.StructuralOnly,
	}
}

func (p Parameters) MissingInterpolation() traces.MissingInterpolation {
	ip := p.Traces.Interpolation
	return traces.MissingInterpolation{Mode: ip.Mode, MinDur: ip.MinDur, Margin: ip.Margin, Invalid: p.Traces.Invalid}
}

func (p Parameters) OutlierOptions() traces.OutlierOptions {
	o := p.Traces.Outliers
	ip := p.Traces.Interpolation
	return traces.OutlierOptions{
		MaxDev:        o.MaxDev,
		Invalid:       p.Traces.Invalid,
		Interpolate:   o.Interpolate,
		Mode:          ip.Mode,
		AllowFraction: o.AllowFraction,
		MinDur:        ip.MinDur,
		Margin:        ip.Margin,
	}
}

func (p Parameters) HampelOptions() traces.HampelOptions {
	h := p.Traces.Hampel
	return traces.HampelOptions{WindowLen: h.WindowLen, Threshold: h.Threshold, Focus: h.Focus, Corrected: h.Corrected}
}

func (p Parameters) SmoothOptions() traces.SmoothOptions {
	return traces.SmoothOptions{WindowLen: p.Traces.Smooth.WindowLen, Kernel: p.Traces.Smooth.Kernel, LengthCorrect: true}
}
