package model

type CreateSessionRequestBody struct {
	Seed *uint64 `json:"seed,omitempty"`
}

type SessionResponse struct {
	Id        string `json:"id"`
	Ticks     int    `json:"ticks"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Melody    Note   `json:"melody"`
	Bass      Note   `json:"bass"`
}

type TickResponse struct {
	SessionId string `json:"session_id"`
	Index     int    `json:"index"`
	Tick      Tick   `json:"tick"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
