package lifecycle

import (
	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
)

// ErrInvalidPermissionLevel is returned for unknown permission levels.
var ErrInvalidPermissionLevel = errors.New("invalid permission level")

// CanTransitionPermission reports whether from -> to is legal. A revoked
// permission is never reactivated.
func CanTransitionPermission(from, to asset.PermissionStatus) bool {
	switch from {
	case asset.PermissionInactive:
		return to == asset.PermissionActive || to == asset.PermissionRevoked
	case asset.PermissionActive:
		return to == asset.PermissionInactive || to == asset.PermissionRevoked
	default:
		return false
	}
}

// TransitionPermission returns p moved to status to.
func TransitionPermission(p asset.Permission, to asset.PermissionStatus) (asset.Permission, error) {
	if !CanTransitionPermission(p.Status, to) {
		return p, illegal("permission", p.ID, p.Status, to)
	}

	p.Status = to
	return p, nil
}

// CheckPermissionLevel validates a permission level update.
func CheckPermissionLevel(level asset.PermissionLevel) error {
	if !level.Valid() {
		return errors.Wrapf(ErrInvalidPermissionLevel, "%d", level)
	}

	return nil
}
