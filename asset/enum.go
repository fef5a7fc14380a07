package asset

// PermissionLevel is the access level a slice grants its holder.
type PermissionLevel uint8

const (
	PermissionNone PermissionLevel = iota
	PermissionRead
	PermissionWrite
	PermissionAdmin
)

// SliceStatus is the ledger-side status byte of a time slice.
type SliceStatus uint8

const (
	SliceActive SliceStatus = iota
	SliceListed
	SliceReserved
	SliceRetired
)

// OrderType is the canonical marketplace order vocabulary. The codes match
// the order_type byte accepted by the ledger program (0..2).
type OrderType uint8

const (
	OrderFixedPrice OrderType = iota
	OrderAuction
	OrderDutchAuction
)

// OrderStatus is the order lifecycle state.
type OrderStatus uint8

const (
	OrderPending OrderStatus = iota
	OrderExecuted
	OrderCancelled
	OrderExpired
)

// ReservationStatus is the reservation lifecycle state.
type ReservationStatus uint8

const (
	ReservationPending ReservationStatus = iota
	ReservationConfirmed
	ReservationCancelled
	ReservationCompleted
)

// ResourceType scopes what a permission grants access to.
type ResourceType uint8

const (
	ResourceCompute ResourceType = iota
	ResourceStorage
	ResourceNetwork
	ResourceAll
)

// PermissionStatus is the permission lifecycle state.
type PermissionStatus uint8

const (
	PermissionInactive PermissionStatus = iota
	PermissionActive
	PermissionRevoked
)

var (
	permissionLevelName = map[PermissionLevel]string{
		PermissionNone:  "NONE",
		PermissionRead:  "READ",
		PermissionWrite: "WRITE",
		PermissionAdmin: "ADMIN",
	}

	sliceStatusName = map[SliceStatus]string{
		SliceActive:   "ACTIVE",
		SliceListed:   "LISTED",
		SliceReserved: "RESERVED",
		SliceRetired:  "RETIRED",
	}

	orderTypeName = map[OrderType]string{
		OrderFixedPrice:   "FIXED_PRICE",
		OrderAuction:      "AUCTION",
		OrderDutchAuction: "DUTCH_AUCTION",
	}

	orderStatusName = map[OrderStatus]string{
		OrderPending:   "PENDING",
		OrderExecuted:  "EXECUTED",
		OrderCancelled: "CANCELLED",
		OrderExpired:   "EXPIRED",
	}

	reservationStatusName = map[ReservationStatus]string{
		ReservationPending:   "PENDING",
		ReservationConfirmed: "CONFIRMED",
		ReservationCancelled: "CANCELLED",
		ReservationCompleted: "COMPLETED",
	}

	resourceTypeName = map[ResourceType]string{
		ResourceCompute: "COMPUTE",
		ResourceStorage: "STORAGE",
		ResourceNetwork: "NETWORK",
		ResourceAll:     "ALL",
	}

	permissionStatusName = map[PermissionStatus]string{
		PermissionInactive: "INACTIVE",
		PermissionActive:   "ACTIVE",
		PermissionRevoked:  "REVOKED",
	}
)

func lookup[K comparable](names map[K]string, k K) string {
	if s, ok := names[k]; ok {
		return s
	}

	return "unknown"
}

func reverse[K comparable](names map[K]string, s string) (K, bool) {
	for k, v := range names {
		if v == s {
			return k, true
		}
	}

	var zero K
	return zero, false
}

func (l PermissionLevel) String() string   { return lookup(permissionLevelName, l) }
func (s SliceStatus) String() string       { return lookup(sliceStatusName, s) }
func (t OrderType) String() string         { return lookup(orderTypeName, t) }
func (s OrderStatus) String() string       { return lookup(orderStatusName, s) }
func (s ReservationStatus) String() string { return lookup(reservationStatusName, s) }
func (t ResourceType) String() string      { return lookup(resourceTypeName, t) }
func (s PermissionStatus) String() string  { return lookup(permissionStatusName, s) }

// Valid reports whether t is one of the canonical order types.
func (t OrderType) Valid() bool {
	_, ok := orderTypeName[t]
	return ok
}

// Valid reports whether l is a known permission level.
func (l PermissionLevel) Valid() bool {
	_, ok := permissionLevelName[l]
	return ok
}

// OrderTypeFromString converts the canonical name to an OrderType.
func OrderTypeFromString(s string) (OrderType, bool) { return reverse(orderTypeName, s) }

// OrderStatusFromString converts the canonical name to an OrderStatus.
func OrderStatusFromString(s string) (OrderStatus, bool) { return reverse(orderStatusName, s) }

// ReservationStatusFromString converts the canonical name to a ReservationStatus.
func ReservationStatusFromString(s string) (ReservationStatus, bool) {
	return reverse(reservationStatusName, s)
}

// PermissionLevelFromString converts the canonical name to a PermissionLevel.
func PermissionLevelFromString(s string) (PermissionLevel, bool) {
	return reverse(permissionLevelName, s)
}

// ResourceTypeFromString converts the canonical name to a ResourceType.
func ResourceTypeFromString(s string) (ResourceType, bool) { return reverse(resourceTypeName, s) }

// PermissionStatusFromString converts the canonical name to a PermissionStatus.
func PermissionStatusFromString(s string) (PermissionStatus, bool) {
	return reverse(permissionStatusName, s)
}
