package handlers

import (
	"net/http"
	"sort"
)

func (a *API) GetChains(w http.ResponseWriter, r *http.Request) {
	views := make([]ChainView, 0, len(a.chains))
	for _, chain := range a.chains {
		if !chain.Deployed() {
			continue
		}
		views = append(views, ChainView{
			ChainID:        chain.ChainID,
			Name:           chain.Name,
			ShortName:      chain.ShortName,
			LzEid:          chain.LzEid,
			BridgeContract: chain.BridgeContract,
			ExplorerURL:    chain.ExplorerURL,
			ContractType:   chain.ContractType,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ChainID < views[j].ChainID })

	responseJSON(w, views, http.StatusOK)
}
