// Package entity defines the domain models for the scan feature.
package entity

import (
	"errors"
	"time"
)

// ScanType はスキャンのランキング方法です。
type ScanType string

const (
	ScanRising  ScanType = "rising"  // 前日比の上昇率順
	ScanVolume  ScanType = "volume"  // 出来高順
	ScanPopular ScanType = "popular" // 売買代金（終値×出来高）順
	ScanMSB     ScanType = "msb"     // 直近でMSBが出た銘柄を売買代金順
)

// ErrUnknownScanType は未知のスキャン種別が指定された場合に返されます。
var ErrUnknownScanType = errors.New("unknown scan type")

// ParseScanType は文字列をScanTypeに変換します。空文字は ScanRising です。
func ParseScanType(s string) (ScanType, error) {
	switch t := ScanType(s); t {
	case "":
		return ScanRising, nil
	case ScanRising, ScanVolume, ScanPopular, ScanMSB:
		return t, nil
	default:
		return "", ErrUnknownScanType
	}
}

// ScanItem は1銘柄分の集計値です。
type ScanItem struct {
	Symbol        string
	ChangePercent float64
	Volume        float64
	Value         float64 // 終値 × 出来高
	HasMSB        bool
}

// ScanResult はスキャン結果です。キャッシュにはJSONで保存されます。
type ScanResult struct {
	Type      ScanType  `json:"type"`
	Symbols   []string  `json:"symbols"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"-"`
}
