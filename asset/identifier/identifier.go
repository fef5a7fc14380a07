// Package identifier generates and renders canonical time slice
// identifiers of the form STIME-<chainId>-<slotNumber>-<timestamp>.
// The timestamp field carries Unix milliseconds.
package identifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// Tag is the literal first field of every identifier.
	Tag = "STIME"

	separator  = "-"
	fieldCount = 4

	isoLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ErrMalformedIdentifier is returned when a string does not follow the
// canonical identifier format.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// Identifier is the parsed form of a canonical identifier.
type Identifier struct {
	ChainID    uint64
	SlotNumber uint64
	Timestamp  uint64
}

// Generate returns the canonical identifier for the coordinates. Uniqueness
// rests entirely on the caller supplying a unique (slot, timestamp) pair.
func Generate(chainID, slotNumber, timestamp uint64) string {
	return Identifier{
		ChainID:    chainID,
		SlotNumber: slotNumber,
		Timestamp:  timestamp,
	}.String()
}

// String renders the canonical form.
func (id Identifier) String() string {
	return fmt.Sprintf("%s-%d-%d-%d", Tag, id.ChainID, id.SlotNumber, id.Timestamp)
}

// Time returns the timestamp field as an instant.
func (id Identifier) Time() time.Time {
	sec := int64(id.Timestamp / 1000)
	nsec := int64(id.Timestamp%1000) * int64(time.Millisecond)
	return time.Unix(sec, nsec).UTC()
}

// Parse splits a canonical identifier into its fields.
func Parse(s string) (Identifier, error) {
	fields := strings.Split(s, separator)
	if len(fields) != fieldCount {
		return Identifier{}, errors.Wrapf(ErrMalformedIdentifier,
			"%q has %d fields, want %d", s, len(fields), fieldCount)
	}

	if fields[0] != Tag {
		return Identifier{}, errors.Wrapf(ErrMalformedIdentifier,
			"%q does not start with %s", s, Tag)
	}

	var (
		id  Identifier
		err error
	)
	if id.ChainID, err = parseField(s, "chain id", fields[1]); err != nil {
		return Identifier{}, err
	}
	if id.SlotNumber, err = parseField(s, "slot number", fields[2]); err != nil {
		return Identifier{}, err
	}
	if id.Timestamp, err = parseField(s, "timestamp", fields[3]); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// Format renders the timestamp field of a canonical identifier as an
// ISO-8601 instant and leaves the other fields untouched.
func Format(s string) (string, error) {
	id, err := Parse(s)
	if err != nil {
		return "", err
	}

	fields := strings.Split(s, separator)
	return strings.Join([]string{
		fields[0],
		fields[1],
		fields[2],
		id.Time().Format(isoLayout),
	}, separator), nil
}

// Valid reports whether s is a canonical identifier.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func parseField(s, name, field string) (uint64, error) {
	v, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedIdentifier,
			"%q %s %q is not an unsigned integer", s, name, field)
	}

	return v, nil
}
