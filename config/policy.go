package config

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultMinDuration is the shortest slice that can be minted.
	DefaultMinDuration = 60 * time.Second
	// DefaultMaxDuration is the absolute cap of one year.
	DefaultMaxDuration = 365 * 24 * time.Hour
	// DefaultMaxPrice is expressed in lamports.
	DefaultMaxPrice = uint64(1_000_000_000)
	// DefaultOrderTTL is how long a PENDING order stays open.
	DefaultOrderTTL = 7 * 24 * time.Hour
	// DefaultMaxBumpAttempts covers the ledger's bump space 255..1.
	DefaultMaxBumpAttempts = 255
)

// Policy holds the bounds every core component is constructed with.
// Components take it by value, so a Policy handed to a constructor cannot
// be changed underneath it.
type Policy struct {
	MinDuration time.Duration `yaml:"min_duration" validate:"gt=0"`
	MaxDuration time.Duration `yaml:"max_duration" validate:"gtefield=MinDuration"`
	// TierBound is the "SUPER" tier upper bound applied by range and
	// duration validation. It never exceeds MaxDuration.
	TierBound       time.Duration `yaml:"tier_bound" validate:"gtefield=MinDuration,ltefield=MaxDuration"`
	MaxPrice        uint64        `yaml:"max_price" validate:"gt=0"`
	OrderTTL        time.Duration `yaml:"order_ttl" validate:"gt=0"`
	MaxBumpAttempts int           `yaml:"max_bump_attempts" validate:"min=1,max=255"`
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		MinDuration:     DefaultMinDuration,
		MaxDuration:     DefaultMaxDuration,
		TierBound:       DefaultMaxDuration,
		MaxPrice:        DefaultMaxPrice,
		OrderTTL:        DefaultOrderTTL,
		MaxBumpAttempts: DefaultMaxBumpAttempts,
	}
}

// Validate checks the cross-field bounds of the policy.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(err, "invalid policy")
	}

	return nil
}

// WithDefaults fills zero fields from DefaultPolicy. It lets yaml files
// override only the bounds they care about.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.MinDuration == 0 {
		p.MinDuration = d.MinDuration
	}
	if p.MaxDuration == 0 {
		p.MaxDuration = d.MaxDuration
	}
	if p.TierBound == 0 {
		p.TierBound = p.MaxDuration
	}
	if p.MaxPrice == 0 {
		p.MaxPrice = d.MaxPrice
	}
	if p.OrderTTL == 0 {
		p.OrderTTL = d.OrderTTL
	}
	if p.MaxBumpAttempts == 0 {
		p.MaxBumpAttempts = d.MaxBumpAttempts
	}

	return p
}
