package pda

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

var (
	upgradeableLoader = asset.MustParseAddress("BPFLoaderUpgradeab1e11111111111111111111111")
	seedPubkey        = asset.MustParseAddress("SeedPubey1111111111111111111111111111111111")
)

// Vectors published with the ledger's reference implementation.
func TestCreateAddressMatchesLedger(t *testing.T) {
	testCases := []struct {
		name  string
		seeds [][]byte
		want  string
	}{
		{
			name:  "empty seed with bump",
			seeds: [][]byte{{}, {1}},
			want:  "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe",
		},
		{
			name:  "unicode seed",
			seeds: [][]byte{[]byte("☉"), {0}},
			want:  "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19",
		},
		{
			name:  "two words",
			seeds: [][]byte{[]byte("Talking"), []byte("Squirrels")},
			want:  "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk",
		},
		{
			name:  "public key seed",
			seeds: [][]byte{seedPubkey.Bytes(), {1}},
			want:  "976ymqVnfE32QFe6NfGDctSvVa36LWnvYxhU6G2232YL",
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			addr, err := CreateAddress(c.seeds, upgradeableLoader)
			require.NoError(t, err)
			require.Equal(t, c.want, addr.String())
		})
	}
}

func TestDeriveSeedOrder(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())
	a, _, err := d.Derive([][]byte{[]byte("Talking"), []byte("Squirrels")}, upgradeableLoader)
	require.NoError(t, err)
	b, _, err := d.Derive([][]byte{[]byte("Squirrels"), []byte("Talking")}, upgradeableLoader)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// Without a bump the reversed order hashes onto the curve.
	_, err = CreateAddress([][]byte{[]byte("Squirrels"), []byte("Talking")}, upgradeableLoader)
	require.True(t, errors.Is(err, ErrOnCurve), "got %v", err)
}

func TestCreateAddressLimits(t *testing.T) {
	_, err := CreateAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, upgradeableLoader)
	require.True(t, errors.Is(err, ErrMaxSeedLength), "got %v", err)

	tooMany := make([][]byte, MaxSeeds+1)
	_, err = CreateAddress(tooMany, upgradeableLoader)
	require.True(t, errors.Is(err, ErrTooManySeeds), "got %v", err)
}

func TestDeriveIsDeterministic(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())
	seeds := ReservationSeeds(seedPubkey, "STIME-1-2-3")

	a1, b1, err := d.Derive(seeds, upgradeableLoader)
	require.NoError(t, err)
	a2, b2, err := d.Derive(seeds, upgradeableLoader)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Equal(t, b1, b2)
	require.True(t, Verify(a1, seeds, b1, upgradeableLoader))
	require.False(t, isOnCurve(a1[:]))

	other := NewDeriver(config.DefaultPolicy())
	a3, b3, err := other.Derive(ReservationSeeds(seedPubkey, "STIME-1-2-3"), upgradeableLoader)
	require.NoError(t, err)
	require.Equal(t, a1, a3)
	require.Equal(t, b1, b3)
}

func TestDeriveDependsOnProgram(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())
	seeds := MetadataSeeds("STIME-1-2-3")

	a1, _, err := d.Derive(seeds, upgradeableLoader)
	require.NoError(t, err)
	a2, _, err := d.Derive(seeds, seedPubkey)
	require.NoError(t, err)
	require.NotEqual(t, a1, a2)
}

func TestDeriveFirstBump(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())
	seeds := [][]byte{[]byte("Lil'"), []byte("Bits")}

	addr, bump, err := d.Derive(seeds, upgradeableLoader)
	require.NoError(t, err)

	// Every higher bump must have landed on the curve.
	for b := 255; b > int(bump); b-- {
		_, err := CreateAddress(append(append([][]byte{}, seeds...), []byte{byte(b)}), upgradeableLoader)
		require.True(t, errors.Is(err, ErrOnCurve), "bump %d: %v", b, err)
	}
	require.True(t, Verify(addr, seeds, bump, upgradeableLoader))
}

func TestDeriveExhausted(t *testing.T) {
	p := config.DefaultPolicy()
	p.MaxBumpAttempts = 3
	d := NewDeriver(p)

	calls := 0
	d.onCurve = func([]byte) bool {
		calls++
		return true
	}

	_, _, err := d.Derive(ReservationLookupSeeds("r-1"), upgradeableLoader)
	require.True(t, errors.Is(err, ErrAddressDerivationExhausted), "got %v", err)
	require.Equal(t, 3, calls)
}

func TestDeriveNeverTriesBumpZero(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())

	calls := 0
	d.onCurve = func([]byte) bool {
		calls++
		return true
	}
	_, _, err := d.Derive([][]byte{[]byte("bump")}, upgradeableLoader)
	require.True(t, errors.Is(err, ErrAddressDerivationExhausted), "got %v", err)
	require.Equal(t, 255, calls)

	p := config.DefaultPolicy()
	p.MaxBumpAttempts = 1000
	require.Equal(t, 255, NewDeriver(p).maxAttempts)
}

func TestDeriveRejectsBadSeeds(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())

	_, _, err := d.Derive(ReservationSeeds(seedPubkey, "STIME-101-250000000-1700000000000"), upgradeableLoader)
	require.True(t, errors.Is(err, ErrMaxSeedLength), "got %v", err)

	_, _, err = d.Derive(make([][]byte, MaxSeeds), upgradeableLoader)
	require.True(t, errors.Is(err, ErrTooManySeeds), "got %v", err)
}

func TestReservationSeedTuplesDiffer(t *testing.T) {
	d := NewDeriver(config.DefaultPolicy())
	byUser, _, err := d.Derive(ReservationSeeds(seedPubkey, "STIME-1-2-3"), upgradeableLoader)
	require.NoError(t, err)
	byID, _, err := d.Derive(ReservationLookupSeeds("STIME-1-2-3"), upgradeableLoader)
	require.NoError(t, err)
	require.NotEqual(t, byUser, byID)
}

func TestTimeSliceSeeds(t *testing.T) {
	start := time.Unix(0x0102, 0)
	end := time.Unix(0x0304, 0)
	seeds := TimeSliceSeeds(seedPubkey, start, end)

	require.Len(t, seeds, 4)
	require.Equal(t, TimeSlicePrefix, string(seeds[0]))
	require.Equal(t, seedPubkey.Bytes(), seeds[1])
	require.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}, seeds[2])
	require.Equal(t, []byte{0x04, 0x03, 0, 0, 0, 0, 0, 0}, seeds[3])

	require.True(t, strings.HasPrefix(string(OrderSeeds(seedPubkey, "x")[0]), OrderPrefix))
}
