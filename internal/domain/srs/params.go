package srs

import (
	"fmt"

	"github.com/banki/banki-srs/internal/domain"
)

// Params defines all configurable parameters for the SM-2 recurrence.
// The success threshold is always domain.QualityPass.
type Params struct {
	// Intervals (days) for the first two successful reviews in a run
	FirstInterval  int
	SecondInterval int

	// Ease factor limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// EaseQualityCap is the highest quality fed into the ease delta formula.
	// Ratings above it adjust the ease factor as if they were equal to it.
	EaseQualityCap int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	FirstInterval  int
	SecondInterval int
	MinEaseFactor  float64
	MaxEaseFactor  float64
	EaseQualityCap int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		FirstInterval:  1,
		SecondInterval: 6,
		MinEaseFactor:  domain.MinEaseFactor,
		MaxEaseFactor:  domain.MaxEaseFactor,
		EaseQualityCap: 4,
	}
}

// NewParams creates a new Params instance with custom configuration.
// The ease factor limits may only narrow the range a LearningState accepts.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.EaseQualityCap > 0 {
		params.EaseQualityCap = config.EaseQualityCap
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that the parameters describe a usable recurrence.
func (p *Params) Validate() error {
	switch {
	case p.FirstInterval < 1:
		return fmt.Errorf("%w: first interval must be at least 1 day", domain.ErrInvalidArgument)
	case p.SecondInterval < p.FirstInterval:
		return fmt.Errorf("%w: second interval %d shorter than first interval %d",
			domain.ErrInvalidArgument, p.SecondInterval, p.FirstInterval)
	case p.MinEaseFactor < domain.MinEaseFactor || p.MaxEaseFactor > domain.MaxEaseFactor:
		return fmt.Errorf("%w: ease factor limits must stay within [%.1f,%.1f]",
			domain.ErrInvalidArgument, domain.MinEaseFactor, domain.MaxEaseFactor)
	case p.MinEaseFactor > p.MaxEaseFactor:
		return fmt.Errorf("%w: min ease factor %.2f above max %.2f",
			domain.ErrInvalidArgument, p.MinEaseFactor, p.MaxEaseFactor)
	case p.EaseQualityCap < domain.MinQuality || p.EaseQualityCap > domain.MaxQuality:
		return fmt.Errorf("%w: ease quality cap %d outside [0,%d]",
			domain.ErrInvalidArgument, p.EaseQualityCap, domain.MaxQuality)
	}
	return nil
}
