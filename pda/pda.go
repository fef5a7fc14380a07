// Package pda derives program-owned ledger addresses from ordered seeds.
//
// The derivation matches the ledger's program-derived address scheme:
//
//	sha256(seed_0 || ... || seed_n || bump || programID || "ProgramDerivedAddress")
//
// where bump is searched from 255 downward and any candidate that decodes
// to a point on the ed25519 curve is rejected, since such an address could
// have a private key.
package pda

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

const (
	// MaxSeeds is the ledger limit on seeds per address, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the ledger limit on a single seed.
	MaxSeedLength = 32

	marker = "ProgramDerivedAddress"
)

var (
	// ErrAddressDerivationExhausted is returned when no bump in the search
	// space yields an off-curve address.
	ErrAddressDerivationExhausted = errors.New("address derivation exhausted")
	// ErrMaxSeedLength is returned for seeds longer than MaxSeedLength.
	ErrMaxSeedLength = errors.New("seed exceeds max length")
	// ErrTooManySeeds is returned when seeds and bump exceed MaxSeeds.
	ErrTooManySeeds = errors.New("too many seeds")
	// ErrOnCurve is returned by CreateAddress when the seeds hash to a
	// point on the curve.
	ErrOnCurve = errors.New("derived address is on curve")
)

// Deriver searches the bump space for a valid program address.
type Deriver struct {
	maxAttempts int
	onCurve     func([]byte) bool
}

// NewDeriver returns a deriver trying at most policy.MaxBumpAttempts bumps.
func NewDeriver(policy config.Policy) *Deriver {
	attempts := policy.MaxBumpAttempts
	if attempts <= 0 || attempts > config.DefaultMaxBumpAttempts {
		attempts = config.DefaultMaxBumpAttempts
	}

	return &Deriver{
		maxAttempts: attempts,
		onCurve:     isOnCurve,
	}
}

// Derive returns the first off-curve address for seeds and program, and
// the bump that produced it. Seed order is part of the address.
func (d *Deriver) Derive(seeds [][]byte, program asset.Address) (asset.Address, uint8, error) {
	if len(seeds) > MaxSeeds-1 {
		return asset.Address{}, 0, errors.Wrapf(ErrTooManySeeds, "%d seeds", len(seeds))
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for i := 0; i < d.maxAttempts; i++ {
		bump[0] = uint8(255 - i)
		addr, err := d.create(withBump, program)
		switch {
		case err == nil:
			return addr, bump[0], nil
		case errors.Is(err, ErrOnCurve):
			continue
		default:
			return asset.Address{}, 0, err
		}
	}

	return asset.Address{}, 0, errors.Wrapf(ErrAddressDerivationExhausted,
		"no off-curve address in %d attempts", d.maxAttempts)
}

// CreateAddress hashes seeds, which must already include the bump, into a
// program address.
func CreateAddress(seeds [][]byte, program asset.Address) (asset.Address, error) {
	d := &Deriver{onCurve: isOnCurve}
	return d.create(seeds, program)
}

// Verify reports whether addr is the address of seeds and bump under program.
func Verify(addr asset.Address, seeds [][]byte, bump uint8, program asset.Address) bool {
	withBump := append(append([][]byte{}, seeds...), []byte{bump})
	got, err := CreateAddress(withBump, program)
	return err == nil && got == addr
}

func (d *Deriver) create(seeds [][]byte, program asset.Address) (asset.Address, error) {
	if len(seeds) > MaxSeeds {
		return asset.Address{}, errors.Wrapf(ErrTooManySeeds, "%d seeds", len(seeds))
	}

	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return asset.Address{}, errors.Wrapf(ErrMaxSeedLength,
				"seed %d is %d bytes", i, len(s))
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(marker))

	var addr asset.Address
	copy(addr[:], h.Sum(nil))
	if d.onCurve(addr[:]) {
		return asset.Address{}, ErrOnCurve
	}

	return addr, nil
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
