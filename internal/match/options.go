// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdiddy/transmem/pkg/types"
)

// ErrInvalidConfiguration reports caller misuse: a threshold outside
// [0,1], a non-positive result cap, a negative context radius, or blend
// weights that do not sum to 1. Values are never clamped silently.
var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	DefaultThreshold     = 0.7
	DefaultMaxResults    = 10
	DefaultContextRadius = 40
)

// Options controls a single Search call.
type Options struct {
	// Threshold is the minimum similarity kept, in [0,1].
	Threshold float64

	// MaxResults caps the result list. Must be positive.
	MaxResults int

	// IncludeContext attaches an excerpt of each source text around the query.
	IncludeContext bool

	// ContextRadius is the excerpt half-width used with IncludeContext.
	ContextRadius int

	// PreferRecent breaks similarity ties by UpdatedAt instead of UsageCount.
	PreferRecent bool

	// ProjectID, when set, restricts the corpus to entries of that project.
	ProjectID string

	// Weights overrides DefaultWeights. The zero value selects the default.
	Weights Weights
}

// DefaultOptions returns the options used when a caller sets nothing.
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		MaxResults:    DefaultMaxResults,
		ContextRadius: DefaultContextRadius,
	}
}

// OptionsFromConfig builds Options from the configured match settings.
// Values are copied as given; Validate rejects out-of-range ones. Zero
// weights select DefaultWeights.
func OptionsFromConfig(cfg types.MatchConfig) Options {
	return Options{
		Threshold:     cfg.Threshold,
		MaxResults:    cfg.MaxResults,
		ContextRadius: cfg.ContextRadius,
		Weights:       Weights{Edit: cfg.EditWeight, Token: cfg.TokenWeight},
	}
}

// Validate reports the first invalid field as ErrInvalidConfiguration.
func (o Options) Validate() error {
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidConfiguration, o.Threshold)
	}
	if o.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidConfiguration, o.MaxResults)
	}
	if o.ContextRadius < 0 {
		return fmt.Errorf("%w: context radius must not be negative, got %d", ErrInvalidConfiguration, o.ContextRadius)
	}
	if !o.Weights.IsZero() {
		if err := o.Weights.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) weights() Weights {
	if o.Weights.IsZero() {
		return DefaultWeights
	}
	return o.Weights
}
