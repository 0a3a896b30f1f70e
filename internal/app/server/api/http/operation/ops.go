package operation

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) startOp() huma.Operation {
	return huma.Operation{
		OperationID: "operations-start",
		Method:      http.MethodPost,
		Path:        "/api/operations/start",
		Summary:     "Запустить операцию",
		Description: "Создает незавершенную операцию на выбранной технике. Техника с незавершенной операцией занята.",
		Tags:        []string{"operations"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) stopOp() huma.Operation {
	return huma.Operation{
		OperationID: "operations-stop",
		Method:      http.MethodPost,
		Path:        "/api/operations/{id}/stop",
		Summary:     "Остановить операцию",
		Tags:        []string{"operations"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "operations-list",
		Method:      http.MethodGet,
		Path:        "/api/operations",
		Summary:     "Список операций",
		Tags:        []string{"operations"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
