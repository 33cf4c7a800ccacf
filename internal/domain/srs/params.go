package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flashcards/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot produce a sane schedule.
var ErrInvalidParams = errors.New("invalid SRS parameters")

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// EaseFactorStep is added on Easy and Medium and subtracted on Hard.
	EaseFactorStep float64

	// Interval limits in days. MinInterval replaces an interval too short to
	// move the next review past now; MaxInterval keeps it representable.
	MinInterval float64
	MaxInterval float64

	// HardInterval is the interval a card restarts from after a Hard rating.
	HardInterval float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor  float64 `mapstructure:"min_ease_factor"`
	MaxEaseFactor  float64 `mapstructure:"max_ease_factor"`
	EaseFactorStep float64 `mapstructure:"ease_factor_step"`
	MinInterval    float64 `mapstructure:"min_interval"`
	MaxInterval    float64 `mapstructure:"max_interval"`
	HardInterval   float64 `mapstructure:"hard_interval"`
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		MaxEaseFactor:  domain.MaxEaseFactor,
		EaseFactorStep: 0.5,
		MinInterval:    1,
		MaxInterval:    domain.MaxInterval,
		HardInterval:   1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.EaseFactorStep > 0 {
		params.EaseFactorStep = config.EaseFactorStep
	}
	if config.MinInterval > 0 {
		params.MinInterval = config.MinInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}
	if config.HardInterval > 0 {
		params.HardInterval = config.HardInterval
	}

	return params
}

// Validate checks that the limits are consistent with each other and with
// the ease bounds every stored card must respect.
func (p *Params) Validate() error {
	switch {
	case p.MinEaseFactor < domain.MinEaseFactor || p.MaxEaseFactor > domain.MaxEaseFactor:
		return fmt.Errorf("%w: ease factor limits must lie within [%.1f, %.1f]",
			ErrInvalidParams, domain.MinEaseFactor, domain.MaxEaseFactor)
	case p.MinEaseFactor > p.MaxEaseFactor:
		return fmt.Errorf("%w: min ease factor exceeds max ease factor", ErrInvalidParams)
	case p.EaseFactorStep <= 0:
		return fmt.Errorf("%w: ease factor step must be positive", ErrInvalidParams)
	case p.MinInterval <= 0:
		return fmt.Errorf("%w: min interval must be positive", ErrInvalidParams)
	case p.MaxInterval > domain.MaxInterval:
		return fmt.Errorf("%w: max interval cannot exceed %.0f days", ErrInvalidParams, domain.MaxInterval)
	case p.MinInterval > p.MaxInterval:
		return fmt.Errorf("%w: min interval exceeds max interval", ErrInvalidParams)
	case p.HardInterval < p.MinInterval || p.HardInterval > p.MaxInterval:
		return fmt.Errorf("%w: hard interval must lie within the interval limits", ErrInvalidParams)
	}
	return nil
}
