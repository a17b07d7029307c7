package handlers

import "gobrgbridge/types"

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

type APIStateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SubmitTransferRequest struct {
	TxHash     string `json:"txHash"`
	SrcChainID int    `json:"srcChainId"`
	DstChainID int    `json:"dstChainId"`
	Amount     string `json:"amount"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

type APIResponseTransfer struct {
	Status   string                 `json:"status"`
	Transfer TransferView           `json:"transfer"`
	Tracking types.TrackingSnapshot `json:"tracking"`
}

// TransferView is a history record with the fields a UI renders.
type TransferView struct {
	types.TransferRecord
	SrcChain        string `json:"srcChain"`
	DstChain        string `json:"dstChain"`
	AmountFormatted string `json:"amountFormatted"`
	ShortTxHash     string `json:"shortTxHash"`
	LzScanURL       string `json:"lzScanUrl"`
}

type APIResponseTransfers struct {
	Status    string         `json:"status"`
	Total     int            `json:"total"`
	Transfers []TransferView `json:"transfers"`
}

type APIResponseTransferStatus struct {
	TxHash          string         `json:"txHash"`
	Status          types.TxStatus `json:"status"`
	DeliveryLinkURL string         `json:"deliveryLinkUrl"`
	LzScanAPIURL    string         `json:"lzScanApiUrl"`
	Guid            string         `json:"guid,omitempty"`
	Tracking        bool           `json:"tracking"`
	TrackingID      string         `json:"trackingId,omitempty"`
}

type ChainView struct {
	ChainID        int    `json:"chainId"`
	Name           string `json:"name"`
	ShortName      string `json:"shortName"`
	LzEid          int    `json:"lzEid"`
	BridgeContract string `json:"bridgeContract"`
	ExplorerURL    string `json:"explorerUrl"`
	ContractType   string `json:"contractType"`
}
