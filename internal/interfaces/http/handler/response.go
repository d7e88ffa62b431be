package handler

import "github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/dto"

// APIResponse is the response envelope with a typed data field. Clients and
// tests decode into it instead of dto.Response when they know the payload.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of a failed request
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
