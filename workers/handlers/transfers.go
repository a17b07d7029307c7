package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gobrgbridge/history"
	"gobrgbridge/lzstatus"
	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi"
)

const defaultListLimit = 10

func (a *API) SubmitTransfer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.logger.Printf("Error reading request body: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error reading request body",
		}, http.StatusBadRequest)
		return
	}

	var req SubmitTransferRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		a.logger.Printf("Error unmarshalling request body: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Cannot unmarshal input JSON",
		}, http.StatusBadRequest)
		return
	}

	txHash, ok := normalizeTxHash(req.TxHash)
	if !ok {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "txHash",
			Message: "No transaction hash or invalid hash provided",
		}, http.StatusBadRequest)
		return
	}

	if _, ok := a.chain(req.SrcChainID); !ok {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "srcChainId",
			Message: "Source chain not provided or not supported",
		}, http.StatusBadRequest)
		return
	}
	if _, ok := a.chain(req.DstChainID); !ok || req.DstChainID == req.SrcChainID {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "dstChainId",
			Message: "Destination chain not provided, not supported or same as source",
		}, http.StatusBadRequest)
		return
	}

	amount, ok := new(big.Int).SetString(strings.TrimSpace(req.Amount), 10)
	if !ok || amount.Sign() < 0 {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "amount",
			Message: "Amount must be a non-negative integer in token base units",
		}, http.StatusBadRequest)
		return
	}

	timestamp := req.Timestamp
	if timestamp <= 0 {
		timestamp = time.Now().UnixMilli()
	}

	rec := types.TransferRecord{
		TxHash:     txHash,
		SrcChainID: req.SrcChainID,
		DstChainID: req.DstChainID,
		Amount:     amount.String(),
		Timestamp:  timestamp,
		Status:     types.StatusPending,
	}

	err = a.history.Append(r.Context(), rec)
	if errors.Is(err, history.ErrDuplicateTransfer) {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "txHash",
			Message: "Transfer already submitted",
		}, http.StatusConflict)
		return
	}
	if err != nil {
		a.logger.Errorf("Error storing transfer %s: %s", txHash, err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error storing transfer",
		}, http.StatusInternalServerError)
		return
	}

	a.logger.Printf("Submitted transfer %s: %d -> %d, amount %s", rec.TxHash, rec.SrcChainID, rec.DstChainID, rec.Amount)

	snap := a.tracker.Begin(rec)
	responseJSON(w, &APIResponseTransfer{
		Status:   "ok",
		Transfer: a.view(rec),
		Tracking: snap,
	}, http.StatusCreated)
}

func (a *API) GetTransfers(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			responseJSON(w, &APIResponse{
				Status:  "error",
				Field:   "limit",
				Message: "Limit must be a positive integer",
			}, http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > a.history.Capacity() {
		limit = a.history.Capacity()
	}

	records := a.history.ListAll(r.Context())
	total := len(records)
	if len(records) > limit {
		records = records[:limit]
	}

	views := make([]TransferView, 0, len(records))
	for _, rec := range records {
		views = append(views, a.view(rec))
	}

	responseJSON(w, &APIResponseTransfers{
		Status:    "ok",
		Total:     total,
		Transfers: views,
	}, http.StatusOK)
}

func (a *API) GetTransfer(w http.ResponseWriter, r *http.Request) {
	txHash, ok := normalizeTxHash(chi.URLParam(r, "txHash"))
	if !ok {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "txHash",
			Message: "Invalid transaction hash",
		}, http.StatusBadRequest)
		return
	}

	resp := APIResponseTransferStatus{
		TxHash:          txHash,
		DeliveryLinkURL: lzstatus.ScanURL(txHash, a.isTestnet),
		LzScanAPIURL:    lzstatus.ScanAPIURL(txHash),
	}

	if snap, ok := a.tracker.Snapshot(txHash); ok {
		resp.Status = snap.Status
		resp.Guid = snap.Guid
		resp.Tracking = snap.Active
		resp.TrackingID = snap.ID
		responseJSON(w, &resp, http.StatusOK)
		return
	}

	rec, found, err := a.history.Get(r.Context(), txHash)
	if err != nil {
		a.logger.Errorf("Error reading transfer %s: %s", txHash, err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error reading transfer history",
		}, http.StatusInternalServerError)
		return
	}
	if !found {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "txHash",
			Message: "Transfer not found",
		}, http.StatusNotFound)
		return
	}

	resp.Status = rec.Status
	responseJSON(w, &resp, http.StatusOK)
}

func (a *API) ClearTransfers(w http.ResponseWriter, r *http.Request) {
	if err := a.history.Clear(r.Context()); err != nil {
		a.logger.Errorf("Error clearing history: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error clearing history",
		}, http.StatusInternalServerError)
		return
	}

	// nothing left to track
	a.tracker.StopAll()

	a.logger.Print("Transfer history cleared")
	responseJSON(w, &APIResponse{
		Status: "ok",
	}, http.StatusOK)
}

func (a *API) view(rec types.TransferRecord) TransferView {
	v := TransferView{
		TransferRecord:  rec,
		AmountFormatted: FormatTokenAmount(rec.Amount, tokenDecimals, displayedDecimals),
		ShortTxHash:     ShortenTxHash(rec.TxHash),
		LzScanURL:       lzstatus.ScanURL(rec.TxHash, a.isTestnet),
	}
	if chain, ok := a.chains[rec.SrcChainID]; ok {
		v.SrcChain = chain.ShortName
	}
	if chain, ok := a.chains[rec.DstChainID]; ok {
		v.DstChain = chain.ShortName
	}
	return v
}

// normalizeTxHash accepts a 0x-prefixed 32-byte hex hash and lowercases it,
// so a hash keys one record whatever casing the client sent.
func normalizeTxHash(s string) (string, bool) {
	s = strings.TrimSpace(s)
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != 32 {
		return "", false
	}
	return hexutil.Encode(b), true
}
