package lzstatus

const (
	scanTestnetURL = "https://testnet.layerzeroscan.com"
	scanMainnetURL = "https://layerzeroscan.com"
	scanAPIURL     = "https://scan.layerzero-api.com/v1"
)

// ScanURL links the source tx on LayerZero Scan.
func ScanURL(txHash string, isTestnet bool) string {
	base := scanMainnetURL
	if isTestnet {
		base = scanTestnetURL
	}
	return base + "/tx/" + txHash
}

// ScanAPIURL is the scan API endpoint for the messages of a source tx. The API host is shared by both networks.
func ScanAPIURL(txHash string) string {
	return scanAPIURL + "/messages/tx/" + txHash
}
