// Package http は外部 API 呼び出し用の HTTP クライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// UserAgent は外部 API へのリクエストに付与する User-Agent です。
const UserAgent = "clickcoin-backend/1.0"

// NewHTTPClient は全体タイムアウト付きの HTTP クライアントを作成します。
// http.DefaultClient はタイムアウトを持たないため使用しないこと。
//
// Transport はダイヤル・TLS ハンドシェイクを短めに打ち切り、
// 同一ホストへの接続を使い回せるようアイドル接続を保持します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16, // スキャンのバッチ並列数に合わせる
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: t},
	}
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)
	return u.base.RoundTrip(r)
}
