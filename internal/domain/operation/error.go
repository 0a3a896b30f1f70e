package operation

import "errors"

var (
	ErrNotFound       = errors.New("operation not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEquipmentBusy  = errors.New("equipment already has an active operation")
	ErrAlreadyStopped = errors.New("operation already stopped")
)
