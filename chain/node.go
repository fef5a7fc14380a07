package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/ledger"
)

const (
	chainStatusPath       = "chain-status"
	blockPath             = "block"
	timeSlicePath         = "time-slice"
	reservationPath       = "reservation"
	orderPath             = "order"
	createTimeSlicePath   = "tx/time-slice"
	transferPath          = "tx/transfer"
	permissionLevelPath   = "tx/permission-level"
	createReservationPath = "tx/reservation"
	cancelReservationPath = "tx/reservation/cancel"
	createOrderPath       = "tx/order"
	executeOrderPath      = "tx/order/execute"
	cancelOrderPath       = "tx/order/cancel"

	requestTimeout = 5 * time.Second
)

var (
	_ ledger.AssetLedger = (*NodeClient)(nil)
	_ ledger.Marketplace = (*NodeClient)(nil)
	_ ledger.Permissions = (*NodeClient)(nil)
	_ ledger.BlockSource = (*NodeClient)(nil)
)

// NodeClient talks to the ledger gateway over HTTP. Requests are paced by
// a token bucket so a busy indexer does not starve interactive callers.
type NodeClient struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewNodeClient returns a client for endpoint allowing rps requests per
// second with the given burst. A non-positive rps disables pacing.
func NewNodeClient(endpoint string, rps float64, burst int) *NodeClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}

	return &NodeClient{
		endpoint: endpoint,
		client:   &http.Client{},
		limiter:  rate.NewLimiter(limit, burst),
	}
}

type chainStatusResp struct {
	Slot uint64 `json:"slot"`
	Hash string `json:"hash"`
}

// HeadSlot requests the ledger head slot.
func (n *NodeClient) HeadSlot(ctx context.Context) (uint64, error) {
	cs := &chainStatusResp{}
	if err := n.get(ctx, chainStatusPath, nil, cs); err != nil {
		return 0, err
	}

	return cs.Slot, nil
}

// BlockBySlot requests the block at slot.
func (n *NodeClient) BlockBySlot(ctx context.Context, slot uint64) (*ledger.Block, error) {
	b := &ledger.Block{}
	return b, n.get(ctx, blockPath, url.Values{"slot": {fmt.Sprint(slot)}}, b)
}

// FetchTimeSlice reads a time slice account.
func (n *NodeClient) FetchTimeSlice(ctx context.Context, id string) (asset.TimeSlice, error) {
	var s asset.TimeSlice
	if err := n.get(ctx, timeSlicePath, url.Values{"id": {id}}, &s); err != nil {
		return asset.TimeSlice{}, err
	}

	return s, nil
}

// FetchReservation reads a reservation account.
func (n *NodeClient) FetchReservation(ctx context.Context, id string) (asset.Reservation, error) {
	var r asset.Reservation
	if err := n.get(ctx, reservationPath, url.Values{"id": {id}}, &r); err != nil {
		return asset.Reservation{}, err
	}

	return r, nil
}

// FetchOrder reads an order account.
func (n *NodeClient) FetchOrder(ctx context.Context, id string) (asset.Order, error) {
	var o asset.Order
	if err := n.get(ctx, orderPath, url.Values{"id": {id}}, &o); err != nil {
		return asset.Order{}, err
	}

	return o, nil
}

type createTimeSliceReq struct {
	Owner     asset.Address `json:"owner"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Metadata  string        `json:"metadata"`
}

// SubmitCreateTimeSlice submits a mint transaction.
func (n *NodeClient) SubmitCreateTimeSlice(
	ctx context.Context,
	owner asset.Address,
	start time.Time,
	end time.Time,
	metadata string,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, createTimeSlicePath, &createTimeSliceReq{
		Owner:     owner,
		StartTime: start,
		EndTime:   end,
		Metadata:  metadata,
	})
}

type transferReq struct {
	From        asset.Address `json:"from"`
	To          asset.Address `json:"to"`
	TimeSliceID string        `json:"time_slice_id"`
}

// SubmitTransfer submits an ownership transfer.
func (n *NodeClient) SubmitTransfer(
	ctx context.Context,
	from asset.Address,
	to asset.Address,
	timeSliceID string,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, transferPath, &transferReq{
		From:        from,
		To:          to,
		TimeSliceID: timeSliceID,
	})
}

type permissionLevelReq struct {
	Owner       asset.Address         `json:"owner"`
	TimeSliceID string                `json:"time_slice_id"`
	Level       asset.PermissionLevel `json:"level"`
}

// SubmitUpdatePermissionLevel submits a permission level change.
func (n *NodeClient) SubmitUpdatePermissionLevel(
	ctx context.Context,
	owner asset.Address,
	timeSliceID string,
	level asset.PermissionLevel,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, permissionLevelPath, &permissionLevelReq{
		Owner:       owner,
		TimeSliceID: timeSliceID,
		Level:       level,
	})
}

// SubmitCreateReservation submits a reservation.
func (n *NodeClient) SubmitCreateReservation(
	ctx context.Context,
	req ledger.CreateReservation,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, createReservationPath, &req)
}

// SubmitCancelReservation submits a reservation cancellation.
func (n *NodeClient) SubmitCancelReservation(
	ctx context.Context,
	req ledger.CancelReservation,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, cancelReservationPath, &req)
}

// SubmitCreateOrder submits an order listing.
func (n *NodeClient) SubmitCreateOrder(
	ctx context.Context,
	req ledger.CreateOrder,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, createOrderPath, &req)
}

type orderActionReq struct {
	Signer  asset.Address `json:"signer"`
	OrderID string        `json:"order_id"`
}

// SubmitExecuteOrder submits a fill of orderID by buyer.
func (n *NodeClient) SubmitExecuteOrder(
	ctx context.Context,
	buyer asset.Address,
	orderID string,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, executeOrderPath, &orderActionReq{Signer: buyer, OrderID: orderID})
}

// SubmitCancelOrder submits a seller cancellation of orderID.
func (n *NodeClient) SubmitCancelOrder(
	ctx context.Context,
	seller asset.Address,
	orderID string,
) (ledger.TransactionHandle, error) {
	return n.submit(ctx, cancelOrderPath, &orderActionReq{Signer: seller, OrderID: orderID})
}

type nodeResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (n *NodeClient) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := fmt.Sprintf("%s/%s", n.endpoint, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return n.do(ctx, http.MethodGet, u, nil, result)
}

func (n *NodeClient) submit(ctx context.Context, path string, payload interface{}) (ledger.TransactionHandle, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ledger.TransactionHandle{}, err
	}

	h := ledger.TransactionHandle{}
	err = n.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s", n.endpoint, path), body, &h)
	return h, err
}

func (n *NodeClient) do(ctx context.Context, method, u string, body []byte, result interface{}) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	nr := &nodeResponse{}
	if err := json.Unmarshal(raw, nr); err != nil {
		return errors.Wrapf(err, "decode %s response", u)
	}

	switch nr.Code {
	case http.StatusOK:
	case http.StatusNotFound:
		return errors.Wrap(ledger.ErrNotFound, nr.Msg)
	default:
		return fmt.Errorf("request ledger node failed, err:%s", nr.Msg)
	}

	return json.Unmarshal(nr.Data, result)
}
