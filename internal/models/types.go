package models

import "github.com/zyren-ai/zyren/internal/assistant"

// ========================= API Models =========================
// Request and response bodies of the HTTP and websocket surface. Engine types
// (predict.Snapshot, predict.Table) are serialized directly.

// RosterRequest carries the opponent names and, for the 8-slot roster, the
// 0-based slots of the five opponents already met.
type RosterRequest struct {
	Names []string `json:"names"`
	Known []int    `json:"known,omitempty"`
}

// OverrideRequest marks one round as Creep. Round is an index; Label
// ("III-2") is accepted instead when Round is absent.
type OverrideRequest struct {
	Mode  string `json:"mode"`
	Round *int   `json:"round,omitempty"`
	Label string `json:"label,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"` // small, medium, large
}

type ImageResponse struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"` // base64 in JSON
	DataURL  string `json:"data_url"`
}

// NewImageResponse renders img for the client.
func NewImageResponse(img *assistant.Image) ImageResponse {
	return ImageResponse{MIMEType: img.MIMEType, Data: img.Data, DataURL: img.DataURL()}
}

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
}

// WebSocket message structure
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WebSocket frame types.
const (
	WsSend  = "send"  // client: {message}
	WsReset = "reset" // client: drop chat history
	WsChunk = "chunk" // server: {text}
	WsDone  = "done"  // server: {reply}
	WsError = "error" // server: {message}
)
