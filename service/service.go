// Package service orchestrates the time slice core against the ledger.
// Every request is validated locally before anything is submitted.
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/lifecycle"
	"github.com/photon-storage/stime/pda"
	"github.com/photon-storage/stime/rarity"
	"github.com/photon-storage/stime/temporal"
)

// Ledger is everything the service submits to or reads from the ledger.
type Ledger interface {
	ledger.AssetLedger
	ledger.Marketplace
	ledger.Permissions
}

// Programs holds the ledger program addresses that own derived accounts.
type Programs struct {
	TimeAsset   asset.Address `yaml:"time_asset"`
	Marketplace asset.Address `yaml:"marketplace"`
	Reservation asset.Address `yaml:"reservation"`
}

// Options configures a Service.
type Options struct {
	ChainID  uint64
	Programs Programs
	Policy   config.Policy
	// Now and NewID default to the wall clock and random uuids.
	Now   func() time.Time
	NewID func() string
}

// Service defines an instance of service that handles time slice,
// marketplace and reservation requests.
type Service struct {
	chainID  uint64
	programs Programs
	ledger   Ledger
	db       *gorm.DB

	temporal *temporal.Validator
	rarity   *rarity.Engine
	deriver  *pda.Deriver
	orders   *lifecycle.Orders

	now   func() time.Time
	newID func() string
}

// New creates a new service instance. db may be nil when no mirror is
// available; explorer queries then fail with ErrNoMirror. Zero policy
// fields take their defaults and the result must pass Policy.Validate.
func New(opts Options, l Ledger, db *gorm.DB) (*Service, error) {
	policy := opts.Policy.WithDefaults()
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		chainID:  opts.ChainID,
		programs: opts.Programs,
		ledger:   l,
		db:       db,
		temporal: temporal.NewValidator(policy),
		rarity:   rarity.NewEngine(policy),
		deriver:  pda.NewDeriver(policy),
		orders:   lifecycle.NewOrders(policy),
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newReservationID
	}

	return s, nil
}

// newReservationID returns 32 hex chars so the id fits a single seed.
func newReservationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
