package catalog

import "minetrack/internal/domain/catalog"

type equipmentOutput struct {
	Body EquipmentResponse
}

type EquipmentResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Data    []catalog.Equipment `json:"data,omitempty"`
}

type activitiesOutput struct {
	Body ActivitiesResponse
}

type ActivitiesResponse struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Data    []catalog.Activity `json:"data,omitempty"`
}

type materialsOutput struct {
	Body MaterialsResponse
}

type MaterialsResponse struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Data    []catalog.Material `json:"data,omitempty"`
}
