package asset

import "time"

// MintInfo records where a slice was minted. It is written once at
// creation and never changes.
type MintInfo struct {
	BlockHeight     uint64 `json:"block_height"`
	TransactionHash string `json:"transaction_hash"`
}

// TimeSlice is a ledger-owned asset covering [StartTime, EndTime).
// Values are mirrored from the ledger; Owner changes only through a
// confirmed transfer transaction.
type TimeSlice struct {
	ID              string          `json:"id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Owner           Address         `json:"owner"`
	MintInfo        MintInfo        `json:"mint_info"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	// RarityScore is derived and may be recomputed at any time.
	RarityScore uint64      `json:"rarity_score"`
	Status      SliceStatus `json:"status"`
	Metadata    string      `json:"metadata"`
}

// Duration returns EndTime - StartTime.
func (s TimeSlice) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Order is a marketplace listing of a time slice.
type Order struct {
	ID          string      `json:"id"`
	TimeSliceID string      `json:"time_slice_id"`
	Seller      Address     `json:"seller"`
	Price       uint64      `json:"price"`
	OrderType   OrderType   `json:"order_type"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Reservation is a temporary lease of part of a time slice.
type Reservation struct {
	ID          string            `json:"id"`
	TimeSliceID string            `json:"time_slice_id"`
	User        Address           `json:"user"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      ReservationStatus `json:"status"`
	Deposit     uint64            `json:"deposit"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Permission grants a user access to the resources behind a slice.
type Permission struct {
	ID              string           `json:"id"`
	TimeSliceID     string           `json:"time_slice_id"`
	User            Address          `json:"user"`
	PermissionLevel PermissionLevel  `json:"permission_level"`
	ResourceType    ResourceType     `json:"resource_type"`
	Priority        uint32           `json:"priority"`
	Status          PermissionStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Metadata is the descriptive record attached to a slice by its owner.
type Metadata struct {
	TimeSliceID string    `json:"time_slice_id"`
	Owner       Address   `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CustomData  []byte    `json:"custom_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
