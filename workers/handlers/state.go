package handlers

import (
	"net/http"
)

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &APIResponse{
		Status: "ok",
	}, http.StatusOK)
}

// prev. tracker clients poll /state for the network they talk to
func (a *API) State(w http.ResponseWriter, r *http.Request) {
	network := "mainnet"
	if a.isTestnet {
		network = "testnet"
	}
	responseJSON(w, &APIStateResponse{
		Status:  "ok",
		Message: network,
	}, http.StatusOK)
}
