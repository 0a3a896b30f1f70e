package operation

import "minetrack/internal/domain/operation"

type startInput struct {
	Body operation.StartRequest
}

type stopInput struct {
	ID   string `path:"id"`
	Body operation.StopRequest
}

type operationOutput struct {
	Body OperationResponse
}

type listOutput struct {
	Body ListResponse
}

// OperationResponse — стандартный конверт {success, data} | {success, error}.
type OperationResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	Data    *operation.Operation `json:"data,omitempty"`
}

type ListResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Data    []operation.Operation `json:"data,omitempty"`
}
