package dto

// SubscribeRequest は POST /newsletter/subscribe のリクエストボディです。
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse は購読登録の結果です。
type SubscribeResponse struct {
	Success           bool `json:"success"`
	AlreadySubscribed bool `json:"alreadySubscribed"`
}
