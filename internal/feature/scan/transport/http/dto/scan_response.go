package dto

// ScanResponse は GET /scan のレスポンスDTOです。
type ScanResponse struct {
	Type      string   `json:"type"`
	Symbols   []string `json:"symbols"`
	Timestamp string   `json:"timestamp"` // RFC3339
	Cached    bool     `json:"cached"`
}
