package service

import "github.com/pkg/errors"

var (
	// ErrNoMirror is returned by explorer queries when the service was
	// built without a database.
	ErrNoMirror = errors.New("no database mirror configured")
	// ErrOrderExpired is returned when a pending order is past its
	// expiry horizon and can no longer be filled or cancelled.
	ErrOrderExpired = errors.New("order has expired")
)
