package dto

// SwingPointResponse はスイングポイントのレスポンスDTOです。
type SwingPointResponse struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
	Kind  string  `json:"kind"`  // "high" / "low"
	Label string  `json:"label"` // H, HH, LH, L, LL, HL
	Index int     `json:"index"`
}

// EventResponse はBOS/MSBイベントのレスポンスDTOです。
type EventResponse struct {
	Time         string  `json:"time"`
	Kind         string  `json:"kind"`      // "BOS" / "MSB"
	Direction    string  `json:"direction"` // "bullish" / "bearish"
	TriggerLevel float64 `json:"triggerLevel"`
	AnchorTime   string  `json:"anchorTime"`
	AnchorLabel  string  `json:"anchorLabel"`
}

// LinePoint はチャートのスイングライン描画用の点です。
type LinePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// StructureResponse は GET /structure/:code のレスポンスDTOです。
type StructureResponse struct {
	Symbol              string               `json:"symbol"`
	Interval            string               `json:"interval"`
	Depth               int                  `json:"depth"`
	CandleCount         int                  `json:"candleCount"`
	Trend               string               `json:"trend"`
	HasRecentMSB        bool                 `json:"hasRecentMSB"`
	HasRecentBullishMSB bool                 `json:"hasRecentBullishMSB"`
	HasRecentBearishMSB bool                 `json:"hasRecentBearishMSB"`
	SwingPoints         []SwingPointResponse `json:"swingPoints"`
	Events              []EventResponse      `json:"events"`
	LineData            []LinePoint          `json:"lineData"`
}
