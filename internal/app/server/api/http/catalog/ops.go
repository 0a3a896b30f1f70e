package catalog

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) equipmentOp() huma.Operation {
	return huma.Operation{
		OperationID: "catalog-equipment",
		Method:      http.MethodGet,
		Path:        "/api/equipment",
		Summary:     "Справочник техники",
		Tags:        []string{"catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) activitiesOp() huma.Operation {
	return huma.Operation{
		OperationID: "catalog-activities",
		Method:      http.MethodGet,
		Path:        "/api/activities",
		Summary:     "Справочник видов работ",
		Tags:        []string{"catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) materialsOp() huma.Operation {
	return huma.Operation{
		OperationID: "catalog-materials",
		Method:      http.MethodGet,
		Path:        "/api/materials",
		Summary:     "Справочник материалов",
		Tags:        []string{"catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
