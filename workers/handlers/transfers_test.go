package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gobrgbridge/config"
	"gobrgbridge/history"
	"gobrgbridge/types"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	sepolia    = 11155111
	arbSepolia = 421614
	testHash   = "0x1d8e1bca1ee53c0b4e1fc4b3b6e9ae0ba3d2b9e22fe9f0aa20c4b6c9e1c70d11"
)

type fakeTracker struct {
	mu    sync.Mutex
	begun []types.TransferRecord
	snaps map[string]types.TrackingSnapshot
	stops int
}

func (f *fakeTracker) Begin(rec types.TransferRecord) types.TrackingSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.begun = append(f.begun, rec)
	snap := types.TrackingSnapshot{ID: "tracking-1", TxHash: rec.TxHash, Status: rec.Status, Active: true}
	if f.snaps == nil {
		f.snaps = make(map[string]types.TrackingSnapshot)
	}
	f.snaps[rec.TxHash] = snap
	return snap
}

func (f *fakeTracker) Snapshot(txHash string) (types.TrackingSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, ok := f.snaps[txHash]
	return snap, ok
}

func (f *fakeTracker) StopAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stops++
	f.snaps = nil
}

type testAPI struct {
	api     *API
	store   *history.Store
	tracker *fakeTracker
	router  http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := history.NewStore(logrus.New(), history.NewMemoryKV(), "brg-bridge-tx-history", 5)
	tracker := &fakeTracker{}
	api := NewAPI(logrus.New(), store, tracker, config.TestnetChains, true)

	r := chi.NewRouter()
	r.Get("/state", api.State)
	r.Get("/chains", api.GetChains)
	r.Post("/transfers", api.SubmitTransfer)
	r.Get("/transfers", api.GetTransfers)
	r.Delete("/transfers", api.ClearTransfers)
	r.Get("/transfers/{txHash}", api.GetTransfer)

	return &testAPI{api: api, store: store, tracker: tracker, router: r}
}

func (ta *testAPI) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

func submitRequest(hash string) SubmitTransferRequest {
	return SubmitTransferRequest{
		TxHash:     hash,
		SrcChainID: sepolia,
		DstChainID: arbSepolia,
		Amount:     "1500000000000000000",
		Timestamp:  1700000000000,
	}
}

func TestSubmitTransfer(t *testing.T) {
	ta := newTestAPI(t)

	resp := ta.do(t, http.MethodPost, "/transfers", submitRequest("0x"+strings.ToUpper(testHash[2:])))
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	var body APIResponseTransfer
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, testHash, body.Transfer.TxHash)
	require.Equal(t, types.StatusPending, body.Transfer.Status)
	require.Equal(t, "1.5", body.Transfer.AmountFormatted)
	require.Equal(t, "https://testnet.layerzeroscan.com/tx/"+testHash, body.Transfer.LzScanURL)
	require.Equal(t, "tracking-1", body.Tracking.ID)
	require.True(t, body.Tracking.Active)

	stored, found, err := ta.store.Get(context.Background(), testHash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1700000000000), stored.Timestamp)
	require.Len(t, ta.tracker.begun, 1)
}

func TestSubmitTransfer_Duplicate(t *testing.T) {
	ta := newTestAPI(t)

	require.Equal(t, http.StatusCreated, ta.do(t, http.MethodPost, "/transfers", submitRequest(testHash)).Code)
	resp := ta.do(t, http.MethodPost, "/transfers", submitRequest(testHash))
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Len(t, ta.store.ListAll(context.Background()), 1)
	require.Len(t, ta.tracker.begun, 1)
}

func TestSubmitTransfer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SubmitTransferRequest)
		field string
	}{
		{"short hash", func(r *SubmitTransferRequest) { r.TxHash = "0xA1" }, "txHash"},
		{"no prefix", func(r *SubmitTransferRequest) { r.TxHash = testHash[2:] }, "txHash"},
		{"unknown source", func(r *SubmitTransferRequest) { r.SrcChainID = 56 }, "srcChainId"},
		{"same chains", func(r *SubmitTransferRequest) { r.DstChainID = sepolia }, "dstChainId"},
		{"undeployed destination", func(r *SubmitTransferRequest) { r.DstChainID = 1 }, "dstChainId"},
		{"decimal amount", func(r *SubmitTransferRequest) { r.Amount = "1.5" }, "amount"},
		{"negative amount", func(r *SubmitTransferRequest) { r.Amount = "-1" }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestAPI(t)
			req := submitRequest(testHash)
			tt.edit(&req)

			resp := ta.do(t, http.MethodPost, "/transfers", req)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			var body APIResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			require.Equal(t, "error", body.Status)
			require.Equal(t, tt.field, body.Field)
			require.Empty(t, ta.store.ListAll(context.Background()))
		})
	}
}

func TestSubmitTransfer_BadJSON(t *testing.T) {
	ta := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader("{"))
	resp := httptest.NewRecorder()
	ta.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetTransfers(t *testing.T) {
	ta := newTestAPI(t)
	hashes := []string{
		"0x0000000000000000000000000000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000000000000000000000000000002",
		"0x0000000000000000000000000000000000000000000000000000000000000003",
	}
	for _, h := range hashes {
		require.Equal(t, http.StatusCreated, ta.do(t, http.MethodPost, "/transfers", submitRequest(h)).Code)
	}

	resp := ta.do(t, http.MethodGet, "/transfers?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body APIResponseTransfers
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 3, body.Total)
	require.Len(t, body.Transfers, 2)
	// newest first
	require.Equal(t, hashes[2], body.Transfers[0].TxHash)
	require.Equal(t, "ETH", body.Transfers[0].SrcChain)
	require.Equal(t, "0x00000000...00000003", body.Transfers[0].ShortTxHash)

	resp = ta.do(t, http.MethodGet, "/transfers", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Transfers, 3)

	require.Equal(t, http.StatusBadRequest, ta.do(t, http.MethodGet, "/transfers?limit=zero", nil).Code)
}

func TestGetTransfer(t *testing.T) {
	ta := newTestAPI(t)
	ctx := context.Background()

	resp := ta.do(t, http.MethodGet, "/transfers/"+testHash, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, http.StatusBadRequest, ta.do(t, http.MethodGet, "/transfers/0xA1", nil).Code)

	// stored but not tracked by this process
	require.NoError(t, ta.store.Append(ctx, types.TransferRecord{
		TxHash: testHash, SrcChainID: sepolia, DstChainID: arbSepolia,
		Amount: "1", Timestamp: 1, Status: types.StatusDelivered,
	}))
	resp = ta.do(t, http.MethodGet, "/transfers/"+testHash, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body APIResponseTransferStatus
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, types.StatusDelivered, body.Status)
	require.False(t, body.Tracking)
	require.Equal(t, "https://scan.layerzero-api.com/v1/messages/tx/"+testHash, body.LzScanAPIURL)

	// live tracking wins over the stored record
	ta.tracker.snaps = map[string]types.TrackingSnapshot{
		testHash: {ID: "t-9", TxHash: testHash, Status: types.StatusInflight, Guid: "0x01", Active: true},
	}
	resp = ta.do(t, http.MethodGet, "/transfers/"+testHash, nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, types.StatusInflight, body.Status)
	require.Equal(t, "0x01", body.Guid)
	require.Equal(t, "t-9", body.TrackingID)
	require.True(t, body.Tracking)
}

func TestClearTransfers(t *testing.T) {
	ta := newTestAPI(t)
	require.Equal(t, http.StatusCreated, ta.do(t, http.MethodPost, "/transfers", submitRequest(testHash)).Code)

	require.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, "/transfers", nil).Code)
	require.Empty(t, ta.store.ListAll(context.Background()))
	require.Equal(t, 1, ta.tracker.stops)
	require.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, "/transfers/"+testHash, nil).Code)

	// a cleared hash can be submitted again
	require.Equal(t, http.StatusCreated, ta.do(t, http.MethodPost, "/transfers", submitRequest(testHash)).Code)
}

func TestGetChainsAndState(t *testing.T) {
	ta := newTestAPI(t)

	resp := ta.do(t, http.MethodGet, "/chains", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var chains []ChainView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chains))
	require.Len(t, chains, len(config.TestnetChains))
	for i := 1; i < len(chains); i++ {
		require.Less(t, chains[i-1].ChainID, chains[i].ChainID)
	}

	resp = ta.do(t, http.MethodGet, "/state", nil)
	var state APIStateResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))
	require.Equal(t, "testnet", state.Message)
}
