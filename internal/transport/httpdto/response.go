package httpdto

import "time"

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type ListResponse[T any] struct {
	Success bool `json:"success"`
	Data    []T  `json:"data"`
	Count   int  `json:"count"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSuccessResponse[T any](data T, message string) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{
		Success: true,
		Data:    data,
		Count:   len(data),
	}
}

func NewErrorResponse(title, message, code string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Error:     title,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
}
