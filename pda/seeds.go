package pda

import (
	"encoding/binary"
	"time"

	"github.com/photon-storage/stime/asset"
)

// Seed prefixes used by the ledger programs.
const (
	TimeSlicePrefix   = "time_slice"
	OrderPrefix       = "order"
	ReservationPrefix = "reservation"
	MetadataPrefix    = "metadata"
)

// TimeSliceSeeds addresses a slice account by owner and interval. The
// instants are encoded as little-endian Unix seconds.
func TimeSliceSeeds(owner asset.Address, start, end time.Time) [][]byte {
	return [][]byte{
		[]byte(TimeSlicePrefix),
		owner.Bytes(),
		le64(start.Unix()),
		le64(end.Unix()),
	}
}

// OrderSeeds addresses an order by seller and slice.
func OrderSeeds(seller asset.Address, timeSliceID string) [][]byte {
	return [][]byte{
		[]byte(OrderPrefix),
		seller.Bytes(),
		[]byte(timeSliceID),
	}
}

// ReservationSeeds addresses the reservation account created by user for a
// slice. This is the tuple used when the reservation is opened.
func ReservationSeeds(user asset.Address, timeSliceID string) [][]byte {
	return [][]byte{
		[]byte(ReservationPrefix),
		user.Bytes(),
		[]byte(timeSliceID),
	}
}

// ReservationLookupSeeds addresses a reservation by its id. It derives a
// different address than ReservationSeeds for the same reservation; the
// lookup and cancel paths of the ledger program use this tuple.
func ReservationLookupSeeds(reservationID string) [][]byte {
	return [][]byte{
		[]byte(ReservationPrefix),
		[]byte(reservationID),
	}
}

// MetadataSeeds addresses the metadata record of a slice.
func MetadataSeeds(timeSliceID string) [][]byte {
	return [][]byte{
		[]byte(MetadataPrefix),
		[]byte(timeSliceID),
	}
}

func le64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}
